package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/penman"
)

var variablePattern = regexp.MustCompile(`^[A-Za-z][\w-]*$`)
var numericLiteral = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// checkContext carries everything the ordered checks need. Checks run
// regardless of earlier check outcomes and only ever append to report.
type checkContext struct {
	graph     *penman.Graph
	report    *Report
	versions  domain.VersionTriple
	rawText   string
	normalized string
}

// runChecks executes the six modular checks in their fixed order.
func runChecks(ctx *checkContext) {
	checkRoot(ctx)
	checkVariables(ctx)
	checkReentrancy(ctx)
	checkTripleCount(ctx)
	checkRoles(ctx)
	checkLint(ctx)
}

func checkRoot(ctx *checkContext) {
	if ctx.graph.Top == "" {
		ctx.report.addError("missing_root", "graph has no top variable", nil)
		return
	}
	for _, tr := range ctx.graph.Triples {
		if tr.Source == ctx.graph.Top && tr.Role == penman.InstanceRole {
			return
		}
	}
	ctx.report.addError("uninstantiated_root", fmt.Sprintf("top variable %q has no :instance triple", ctx.graph.Top), map[string]interface{}{
		"variable": ctx.graph.Top,
	})
}

func checkVariables(ctx *checkContext) {
	instances := map[string]string{} // variable -> first concept seen
	var conflicts []string
	instanceOrder := []string{}

	for _, tr := range ctx.graph.Triples {
		if tr.Role != penman.InstanceRole {
			continue
		}
		if !variablePattern.MatchString(tr.Source) {
			ctx.report.addError("invalid_variable_name", fmt.Sprintf("variable %q does not match [A-Za-z][\\w-]*", tr.Source), map[string]interface{}{
				"variable": tr.Source,
			})
		}
		if existing, seen := instances[tr.Source]; seen {
			if existing != tr.Target {
				conflicts = append(conflicts, tr.Source)
			}
			continue
		}
		instances[tr.Source] = tr.Target
		instanceOrder = append(instanceOrder, tr.Source)
	}

	sort.Strings(conflicts)
	conflicts = dedupeStrings(conflicts)
	for _, v := range conflicts {
		ctx.report.addError("conflicting_instances", fmt.Sprintf("variable %q is instantiated with conflicting concepts", v), map[string]interface{}{
			"variable": v,
		})
	}

	if len(instances) == 0 {
		ctx.report.addWarning("no_instances", "graph declares no :instance triples", nil)
	}

	dangling := danglingVariables(ctx.graph, instances)
	for _, v := range dangling {
		ctx.report.addError("dangling_variable", fmt.Sprintf("variable %q is referenced but never instantiated", v), map[string]interface{}{
			"variable": v,
		})
	}
}

// danglingVariables walks the raw node tree (not the flattened triples)
// so it can see which atom edges were quoted literals versus bare
// variable-shaped tokens. A bare token matching the variable pattern
// that isn't a numeric literal or the polarity marker "-" is treated
// as a variable reference; if nothing instantiates it, it's dangling.
func danglingVariables(g *penman.Graph, instances map[string]string) []string {
	seen := map[string]bool{}
	var found []string
	g.Walk(func(n *penman.Node) {
		for _, e := range n.Edges {
			if e.Target != nil || e.AtomQuoted {
				continue
			}
			if e.Atom == "-" || numericLiteral.MatchString(e.Atom) {
				continue
			}
			if !variablePattern.MatchString(e.Atom) {
				continue
			}
			if _, ok := instances[e.Atom]; ok {
				continue
			}
			if seen[e.Atom] {
				continue
			}
			seen[e.Atom] = true
			found = append(found, e.Atom)
		}
	})
	sort.Strings(found)
	return found
}

func dedupeStrings(in []string) []string {
	out := in[:0]
	var last string
	for i, s := range in {
		if i > 0 && s == last {
			continue
		}
		out = append(out, s)
		last = s
	}
	return out
}

func checkReentrancy(ctx *checkContext) {
	instances := map[string]bool{}
	for _, tr := range ctx.graph.Triples {
		if tr.Role == penman.InstanceRole {
			instances[tr.Source] = true
		}
	}

	incoming := map[string]int{}
	for _, tr := range ctx.graph.Triples {
		if tr.Role == penman.InstanceRole {
			continue
		}
		if instances[tr.Target] {
			incoming[tr.Target]++
		}
	}

	var nodes []string
	for node, count := range incoming {
		if count > 1 {
			nodes = append(nodes, node)
		}
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		ctx.report.addWarning("reentrancy", fmt.Sprintf("variable %q receives %d incoming edges", node, incoming[node]), map[string]interface{}{
			"variable":      node,
			"incoming_edges": incoming[node],
		})
	}
}

func checkTripleCount(ctx *checkContext) {
	count := len(ctx.graph.Triples)
	if count == 0 {
		ctx.report.addError("no_triples", "graph has zero triples", nil)
		return
	}
	instanceCount := 0
	for _, tr := range ctx.graph.Triples {
		if tr.Role == penman.InstanceRole {
			instanceCount++
		}
	}
	if instanceCount == 0 {
		ctx.report.addWarning("no_instance_triples", "graph has no :instance triples", nil)
	}
}

func checkRoles(ctx *checkContext) {
	allowed := AllowedRoles(ctx.versions.RoleSetVersion)
	var offenders []string
	offenderSeen := map[string]bool{}
	anyArgRole := false

	for _, tr := range ctx.graph.Triples {
		if tr.Role == penman.InstanceRole {
			continue
		}
		name := normalizeRoleName(tr.Role)
		if !isArgRole(name) {
			continue
		}
		anyArgRole = true
		if !allowed[name] {
			if !offenderSeen[name] {
				offenderSeen[name] = true
				offenders = append(offenders, name)
			}
		}
	}

	sort.Strings(offenders)
	if len(offenders) > 0 {
		ctx.report.addError("role_mismatch", fmt.Sprintf("roles not permitted for role set %q: %s", ctx.versions.RoleSetVersion, strings.Join(offenders, ", ")), map[string]interface{}{
			"role_set_version": ctx.versions.RoleSetVersion,
			"offenders":        offenders,
		})
	}
	if !anyArgRole {
		ctx.report.addWarning("no_roles_detected", "no PropBank-style role found in graph", nil)
	}
}

func checkLint(ctx *checkContext) {
	type key struct {
		source string
		role   string
	}
	counts := map[key]int{}
	var order []key
	for _, tr := range ctx.graph.Triples {
		if tr.Role == penman.InstanceRole {
			continue
		}
		k := key{source: tr.Source, role: tr.Role}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	for _, k := range order {
		if counts[k] > 1 {
			ctx.report.addLint("duplicate_roles", fmt.Sprintf("role %q appears %d times on variable %q", k.role, counts[k], k.source), map[string]interface{}{
				"variable": k.source,
				"role":     k.role,
				"count":    counts[k],
			})
		}
	}

	if ctx.rawText != ctx.normalized {
		ctx.report.addLint("leading_trailing_whitespace", "submitted text has leading or trailing whitespace", nil)
	}
}
