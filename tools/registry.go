package tools

// Registry returns all tool definitions wired for the agent. Cluster-facing
// tools are bound to the given applier factory and querier; the
// manifest-library tools are self-contained.
func Registry(newApplier ApplierFactory, q ResourceQuerier) []ToolDefinition {
	return []ToolDefinition{
		ApplyManifestDefinition(newApplier),
		QueryResourcesDefinition(q),
		ReadManifestDefinition,
		ListManifestsDefinition,
	}
}
