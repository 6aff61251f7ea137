package ast

// Fundamental type names. These are known without any namespace lookup.
const (
	TYPE_NONE        = "none"
	TYPE_ANY         = "gpointer"
	TYPE_BOOLEAN     = "gboolean"
	TYPE_INT8        = "gint8"
	TYPE_UINT8       = "guint8"
	TYPE_INT16       = "gint16"
	TYPE_UINT16      = "guint16"
	TYPE_INT32       = "gint32"
	TYPE_UINT32      = "guint32"
	TYPE_INT64       = "gint64"
	TYPE_UINT64      = "guint64"
	TYPE_CHAR        = "gchar"
	TYPE_SHORT       = "gshort"
	TYPE_USHORT      = "gushort"
	TYPE_INT         = "gint"
	TYPE_UINT        = "guint"
	TYPE_LONG        = "glong"
	TYPE_ULONG       = "gulong"
	TYPE_SSIZE       = "gssize"
	TYPE_SIZE        = "gsize"
	TYPE_INTPTR      = "gintptr"
	TYPE_UINTPTR     = "guintptr"
	TYPE_FLOAT       = "gfloat"
	TYPE_DOUBLE      = "gdouble"
	TYPE_LONG_DOUBLE = "long double"
	TYPE_UNICHAR     = "gunichar"
	TYPE_GTYPE       = "GType"
	TYPE_STRING      = "utf8"
	TYPE_FILENAME    = "filename"
	TYPE_VALIST      = "va_list"
)

// basicTypes are the scalar fundamentals, excluding strings and pointers.
var basicTypes = []string{
	TYPE_BOOLEAN,
	TYPE_INT8, TYPE_UINT8,
	TYPE_INT16, TYPE_UINT16,
	TYPE_INT32, TYPE_UINT32,
	TYPE_INT64, TYPE_UINT64,
	TYPE_CHAR, TYPE_SHORT, TYPE_USHORT,
	TYPE_INT, TYPE_UINT,
	TYPE_LONG, TYPE_ULONG,
	TYPE_SSIZE, TYPE_SIZE,
	TYPE_INTPTR, TYPE_UINTPTR,
	TYPE_FLOAT, TYPE_DOUBLE, TYPE_LONG_DOUBLE,
	TYPE_UNICHAR, TYPE_GTYPE,
}

var otherTypes = []string{
	TYPE_NONE, TYPE_ANY, TYPE_STRING, TYPE_FILENAME, TYPE_VALIST,
}

// typeNames maps every known spelling, including ones with pointer markers
// such as "char*", to its fundamental.
var typeNames = map[string]string{}

var basicTypeNames = map[string]bool{}

func init() {
	for _, name := range basicTypes {
		typeNames[name] = name
		basicTypeNames[name] = true
	}
	for _, name := range otherTypes {
		typeNames[name] = name
	}
	aliases := map[string]string{
		// C
		"void":               TYPE_NONE,
		"void*":              TYPE_ANY,
		"char":               TYPE_CHAR,
		"signed char":        TYPE_INT8,
		"unsigned char":      TYPE_UINT8,
		"short":              TYPE_SHORT,
		"signed short":       TYPE_SHORT,
		"short int":          TYPE_SHORT,
		"unsigned short":     TYPE_USHORT,
		"unsigned short int": TYPE_USHORT,
		"int":                TYPE_INT,
		"signed int":         TYPE_INT,
		"signed":             TYPE_INT,
		"unsigned int":       TYPE_UINT,
		"unsigned":           TYPE_UINT,
		"long":               TYPE_LONG,
		"long int":           TYPE_LONG,
		"signed long":        TYPE_LONG,
		"unsigned long":      TYPE_ULONG,
		"unsigned long int":  TYPE_ULONG,
		"long unsigned int":  TYPE_ULONG,
		"float":              TYPE_FLOAT,
		"double":             TYPE_DOUBLE,
		"_Bool":              TYPE_BOOLEAN,
		"char*":              TYPE_STRING,
		// Spellings found in compiler debug info
		"short unsigned int":     TYPE_USHORT,
		"long long":              TYPE_INT64,
		"long long int":          TYPE_INT64,
		"unsigned long long":     TYPE_UINT64,
		"long long unsigned int": TYPE_UINT64,
		// POSIX
		"size_t":    TYPE_ULONG,
		"ssize_t":   TYPE_LONG,
		"time_t":    TYPE_LONG,
		"off_t":     TYPE_SIZE,
		"pid_t":     TYPE_INT,
		"uid_t":     TYPE_UINT,
		"gid_t":     TYPE_UINT,
		"dev_t":     TYPE_INT,
		"socklen_t": TYPE_INT32,
		"int8_t":    TYPE_INT8,
		"uint8_t":   TYPE_UINT8,
		"int16_t":   TYPE_INT16,
		"uint16_t":  TYPE_UINT16,
		"int32_t":   TYPE_INT32,
		"uint32_t":  TYPE_UINT32,
		"int64_t":   TYPE_INT64,
		"uint64_t":  TYPE_UINT64,
		"intptr_t":  TYPE_INTPTR,
		"uintptr_t": TYPE_UINTPTR,
		// Objective-C
		"id": TYPE_ANY,
		// GLib
		"gconstpointer": TYPE_ANY,
		"gchar*":        TYPE_STRING,
		"gchararray":    TYPE_STRING,
		"guchar":        TYPE_UINT8,
		"gsize":         TYPE_SIZE,
		"goffset":       TYPE_INT64,
		"gunichar2":     TYPE_UINT16,
	}
	for spelling, fundamental := range aliases {
		typeNames[spelling] = fundamental
	}
}

// LookupFundamental returns the fundamental a C spelling maps to. The
// spelling is matched exactly, pointer markers included.
func LookupFundamental(spelling string) (string, bool) {
	f, ok := typeNames[spelling]
	return f, ok
}

// IsFundamentalName reports whether name is any known fundamental spelling.
// Such names are reserved and cannot be redefined by an alias.
func IsFundamentalName(name string) bool {
	_, ok := typeNames[name]
	return ok
}

// IsBasic reports whether fundamental is a scalar fundamental.
func IsBasic(fundamental string) bool {
	return basicTypeNames[fundamental]
}
