package ast

// Dump converts the namespace into plain maps, slices and strings, the
// shape generic JSON tooling expects. Nodes keep their insertion order.
func (ns *Namespace) Dump() map[string]interface{} {
	nodes := make([]interface{}, 0, len(ns.nodes))
	for _, n := range ns.nodes {
		nodes = append(nodes, DumpNode(n))
	}
	return map[string]interface{}{
		"name":                ns.Name,
		"version":             ns.Version,
		"identifier_prefixes": stringsOf(ns.IdentifierPrefixes),
		"symbol_prefixes":     stringsOf(ns.SymbolPrefixes),
		"nodes":               nodes,
	}
}

func stringsOf(ss []string) []interface{} {
	ret := make([]interface{}, 0, len(ss))
	for _, s := range ss {
		ret = append(ret, s)
	}
	return ret
}

func positionsOf(n Node) []interface{} {
	ret := []interface{}{}
	for _, pos := range n.Positions() {
		ret = append(ret, pos.String())
	}
	return ret
}

// DumpNode converts a single node, see Namespace.Dump.
func DumpNode(n Node) map[string]interface{} {
	ret := map[string]interface{}{
		"name":      n.Name(),
		"positions": positionsOf(n),
	}
	if n.CType() != "" {
		ret["ctype"] = n.CType()
	}
	switch t := n.(type) {
	case *Function:
		ret["kind"] = "function"
		ret["return"] = DumpType(t.Return.Type)
		ret["parameters"] = dumpParams(t.Parameters)
	case *Callback:
		ret["kind"] = "callback"
		ret["return"] = DumpType(t.Return.Type)
		ret["parameters"] = dumpParams(t.Parameters)
	case *Record:
		ret["kind"] = "record"
		ret["disguised"] = t.Disguised
		ret["fields"] = dumpFields(t.Fields)
		if t.TypeName != "" {
			ret["type_name"] = t.TypeName
		}
	case *Union:
		ret["kind"] = "union"
		ret["fields"] = dumpFields(t.Fields)
		if t.TypeName != "" {
			ret["type_name"] = t.TypeName
		}
	case *Enum:
		ret["kind"] = "enum"
		ret["members"] = dumpMembers(t.Members)
	case *Bitfield:
		ret["kind"] = "bitfield"
		ret["members"] = dumpMembers(t.Members)
	case *Field:
		ret["kind"] = "field"
		for k, v := range dumpField(t) {
			ret[k] = v
		}
	case *Alias:
		ret["kind"] = "alias"
		ret["target"] = DumpType(t.Target)
	case *Constant:
		ret["kind"] = "constant"
		ret["type"] = DumpType(t.Type)
		ret["value"] = t.Value
	case *Class:
		ret["kind"] = "class"
		ret["type_name"] = t.TypeName
		ret["parent"] = t.Parent
	case *Interface:
		ret["kind"] = "interface"
		ret["type_name"] = t.TypeName
	case *Boxed:
		ret["kind"] = "boxed"
		ret["type_name"] = t.TypeName
	}
	return ret
}

func dumpParams(params []*Parameter) []interface{} {
	ret := make([]interface{}, 0, len(params))
	for _, p := range params {
		m := map[string]interface{}{
			"name": p.Name,
			"type": DumpType(p.Type),
		}
		if p.ClosureName != "" {
			m["closure"] = p.ClosureName
		}
		ret = append(ret, m)
	}
	return ret
}

func dumpField(f *Field) map[string]interface{} {
	m := map[string]interface{}{
		"name":     f.Name(),
		"readable": f.Readable,
		"writable": f.Writable,
	}
	if f.Bits > 0 {
		m["bits"] = f.Bits
	}
	if f.Anonymous != nil {
		m["anonymous"] = DumpNode(f.Anonymous)
	} else {
		m["type"] = DumpType(f.Type)
	}
	return m
}

func dumpFields(fields []*Field) []interface{} {
	ret := make([]interface{}, 0, len(fields))
	for _, f := range fields {
		ret = append(ret, dumpField(f))
	}
	return ret
}

func dumpMembers(members []*Member) []interface{} {
	ret := make([]interface{}, 0, len(members))
	for _, m := range members {
		ret = append(ret, map[string]interface{}{
			"name":   m.Name,
			"value":  int(m.Value),
			"symbol": m.Symbol,
		})
	}
	return ret
}

// DumpType converts a type reference, see Namespace.Dump.
func DumpType(t TypeRef) map[string]interface{} {
	switch t := t.(type) {
	case *Type:
		m := map[string]interface{}{"kind": "type", "resolved": t.Resolved()}
		if t.Fundamental != "" {
			m["fundamental"] = t.Fundamental
		}
		if t.Target != "" {
			m["target"] = t.Target
		}
		if t.CType != "" {
			m["ctype"] = t.CType
		}
		if t.GTypeName != "" {
			m["gtype_name"] = t.GTypeName
		}
		return m
	case *Array:
		m := map[string]interface{}{
			"kind":            "array",
			"element":         DumpType(t.Element),
			"zero_terminated": t.ZeroTerminated,
		}
		if t.Name != "" {
			m["name"] = t.Name
		}
		if t.Size != nil {
			m["size"] = int(*t.Size)
		}
		return m
	case *List:
		return map[string]interface{}{
			"kind":    "list",
			"name":    t.Name,
			"element": DumpType(t.Element),
		}
	case *Map:
		return map[string]interface{}{
			"kind":  "map",
			"key":   DumpType(t.Key),
			"value": DumpType(t.Value),
		}
	case *Varargs:
		return map[string]interface{}{"kind": "varargs"}
	}
	return nil
}
