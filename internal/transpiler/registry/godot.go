package registry

const (
	collectionsGeneric = "System.Collections.Generic"
	godotCollections   = "Godot.Collections"
	godotNamespace     = "Godot"
)

// GodotDefaults registers the .NET and Godot mappings used by default.
func GodotDefaults(r *Registry) {
	for _, c := range []CollectionInfo{
		{Name: "Map", Target: "Dictionary", Namespace: collectionsGeneric, FrameworkTarget: "Dictionary", FrameworkNamespace: godotCollections},
		{Name: "Record", Target: "Dictionary", Namespace: collectionsGeneric, FrameworkTarget: "Dictionary", FrameworkNamespace: godotCollections},
		{Name: "Set", Target: "HashSet", Namespace: collectionsGeneric},
		{Name: "ReadonlyArray", Target: "IReadOnlyList", Namespace: collectionsGeneric},
		{Name: "ReadonlyMap", Target: "IReadOnlyDictionary", Namespace: collectionsGeneric},
		{Name: "ReadonlySet", Target: "IReadOnlySet", Namespace: collectionsGeneric},
		{Name: "Iterable", Target: "IEnumerable", Namespace: collectionsGeneric},
		{Name: "IterableIterator", Target: "IEnumerable", Namespace: collectionsGeneric},
		{Name: "WeakMap", Target: "ConditionalWeakTable", Namespace: "System.Runtime.CompilerServices"},
		{Name: "WeakSet", Target: "ConditionalWeakTable", Namespace: "System.Runtime.CompilerServices", PadObject: true},
		{Name: "WeakRef", Target: "WeakReference", Namespace: "System"},
		{Name: "Promise", Target: "Task", Namespace: "System.Threading.Tasks"},
	} {
		r.RegisterCollection(c)
	}

	for name, elem := range map[string]string{
		"Int8Array":         "sbyte",
		"Uint8Array":        "byte",
		"Uint8ClampedArray": "byte",
		"Int16Array":        "short",
		"Uint16Array":       "ushort",
		"Int32Array":        "int",
		"Uint32Array":       "uint",
		"Float32Array":      "float",
		"Float64Array":      "double",
		"BigInt64Array":     "long",
		"BigUint64Array":    "ulong",
		"ArrayBuffer":       "byte",
	} {
		r.RegisterTypedBuffer(name, elem)
	}

	r.RegisterCall("console.log", CallInfo{Receiver: "GD", Method: "Print", Namespace: godotNamespace})
	r.RegisterCall("console.info", CallInfo{Receiver: "GD", Method: "Print", Namespace: godotNamespace})
	r.RegisterCall("console.debug", CallInfo{Receiver: "GD", Method: "Print", Namespace: godotNamespace})
	r.RegisterCall("console.error", CallInfo{Receiver: "GD", Method: "PrintErr", Namespace: godotNamespace})
	r.RegisterCall("console.warn", CallInfo{Receiver: "GD", Method: "PushWarning", Namespace: godotNamespace})
	r.RegisterCall("Math.random", CallInfo{Receiver: "GD", Method: "Randf", Namespace: godotNamespace})

	r.SetAttributeNamespace(godotNamespace)
	r.RegisterAttribute("export", "Export")
	r.RegisterAttribute("tool", "Tool")
	r.RegisterAttribute("globalClass", "GlobalClass")
	r.RegisterAttribute("signal", "Signal")
	r.RegisterAttribute("exportGroup", "ExportGroup")
	r.RegisterAttribute("exportCategory", "ExportCategory")
	r.RegisterAttribute("icon", "Icon")

	for _, v := range []string{
		"_ready", "_process", "_physics_process", "_input", "_unhandled_input",
		"_unhandled_key_input", "_enter_tree", "_exit_tree", "_draw", "_notification",
		"_gui_input", "_integrate_forces",
	} {
		r.RegisterVirtual(v)
	}
}

// DefaultRegistry returns a registry pre-configured with the .NET and Godot tables.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	GodotDefaults(r)
	return r
}

// Global is the default global registry instance.
//
// For most use cases, use this global instance. Only create custom registries
// when you need isolation (e.g., in tests).
var Global = DefaultRegistry()
