package diagram

import (
	"fmt"
	"regexp"
	"strings"
)

// subComponentRe matches a stage of the form "Name[item1,item2,...]".
// Unbalanced brackets fail the match and degrade to a literal label.
var subComponentRe = regexp.MustCompile(`^(.+?)\[(.*)\]$`)

// Parse converts a raw description into an ordered node list and a list of
// directed edges.
//
// The description is a chain of stages separated by "->". After trimming,
// each stage is one of:
//
//   - a branch group: contains both ':' and ',' and fans out into one
//     process node per "Label: Target" pair, each with a labeled edge from
//     the previous stage's node
//   - a sub-component stage: "Name[a,b,c]" where the bracketed items become
//     the node's sub-item list
//   - a plain stage: the trimmed text is the label verbatim
//
// A stage whose raw text ends with '?' becomes a decision regardless of
// position. Otherwise the first stage is start, the last is end, and
// everything between is process. A single-stage description yields one
// node of kind start. Empty stages are dropped silently; they neither
// produce nodes nor break the adjacency chain.
//
// Parse never fails: structurally odd input degrades to best-effort
// literal labels, and a description with zero stages yields empty lists.
func Parse(description string) ([]Node, []Edge) {
	var stages []string
	for _, s := range strings.Split(description, "->") {
		s = strings.TrimSpace(s)
		if s != "" {
			stages = append(stages, s)
		}
	}

	nodes := make([]Node, 0, len(stages))
	edges := make([]Edge, 0, len(stages))
	prev := -1 // index of the previous stage's node; -1 before the first stage

	for i, stage := range stages {
		if isBranchGroup(stage) {
			nodes, edges, prev = parseBranchGroup(stage, nodes, edges, prev)
			continue
		}

		n := Node{ID: nextID(len(nodes))}
		n.Label, n.SubItems = splitSubItems(stage)
		n.Kind = stageKind(stage, i, len(stages))

		nodes = append(nodes, n)
		if prev >= 0 {
			edges = append(edges, Edge{From: nodes[prev].ID, To: n.ID})
		}
		prev = len(nodes) - 1
	}

	return nodes, edges
}

// isBranchGroup reports whether a stage encodes "Label: Target" pairs.
// A stage needs both a colon and a comma to qualify; a sub-component stage
// like "Name[a,b]" has commas but no colon and stays a single node.
func isBranchGroup(stage string) bool {
	return strings.Contains(stage, ":") && strings.Contains(stage, ",")
}

// parseBranchGroup fans a branch stage out into one process node per pair,
// each with a labeled edge from the previous stage's node. The chain
// continues from the last node the group created. A pair without a colon
// degrades to an unlabeled edge and a literal target label.
func parseBranchGroup(stage string, nodes []Node, edges []Edge, prev int) ([]Node, []Edge, int) {
	for _, pair := range strings.Split(stage, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		label, target, found := strings.Cut(pair, ":")
		if !found {
			label, target = "", pair
		}

		n := Node{
			ID:    nextID(len(nodes)),
			Label: strings.TrimSpace(target),
			Kind:  KindProcess,
		}
		nodes = append(nodes, n)

		if prev >= 0 {
			edges = append(edges, Edge{
				From:  nodes[prev].ID,
				To:    n.ID,
				Label: strings.TrimSpace(label),
			})
		}
	}

	if len(nodes) > 0 {
		prev = len(nodes) - 1
	}
	return nodes, edges, prev
}

// splitSubItems separates "Name[a,b,c]" into a label and its trimmed
// sub-item list. Stages without a well-formed bracket group return the
// whole stage as the label.
func splitSubItems(stage string) (string, []string) {
	m := subComponentRe.FindStringSubmatch(stage)
	if m == nil {
		return stage, nil
	}

	var items []string
	for _, item := range strings.Split(m[2], ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return strings.TrimSpace(m[1]), items
}

// stageKind assigns a kind from the raw stage text and its chain position.
// The '?' suffix wins over position. With a single stage the positional
// rule is ambiguous (first equals last); this implementation picks start.
func stageKind(stage string, index, total int) Kind {
	if strings.HasSuffix(stage, "?") {
		return KindDecision
	}
	switch {
	case index == 0:
		return KindStart
	case index == total-1:
		return KindEnd
	default:
		return KindProcess
	}
}

// nextID returns the stable id for the n-th created node. IDs depend only
// on creation order, so identical input always yields identical ids.
func nextID(created int) string {
	return fmt.Sprintf("node%d", created+1)
}
