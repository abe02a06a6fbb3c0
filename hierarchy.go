package eidgo

import "sort"

// Hierarchy groups all current records by namespace, then group, then
// subgroup. The view is fully derived from the metadata table and rebuilt
// fresh on each call; nodes are ordered by namespace and id lists are sorted.
func (r *Registry) Hierarchy() []HierarchyNode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byNamespace := make(map[string]map[string]map[string][]string)
	for _, e := range r.entries {
		m := e.meta
		groups, ok := byNamespace[m.Namespace]
		if !ok {
			groups = make(map[string]map[string][]string)
			byNamespace[m.Namespace] = groups
		}
		subgroups, ok := groups[m.Group]
		if !ok {
			subgroups = make(map[string][]string)
			groups[m.Group] = subgroups
		}
		subgroups[m.Subgroup] = append(subgroups[m.Subgroup], m.ID)
	}

	namespaces := make([]string, 0, len(byNamespace))
	for ns := range byNamespace {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)

	nodes := make([]HierarchyNode, 0, len(namespaces))
	for _, ns := range namespaces {
		for _, subgroups := range byNamespace[ns] {
			for _, ids := range subgroups {
				sort.Strings(ids)
			}
		}
		nodes = append(nodes, HierarchyNode{Namespace: ns, Children: byNamespace[ns]})
	}
	return nodes
}
