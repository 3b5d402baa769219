package router

import (
	"fmt"
	"sort"
)

// WarningKind categorizes route table warnings.
type WarningKind string

const (
	// WarningDuplicateRoute: the same method and pattern are registered
	// more than once. Only the first registration can ever run.
	WarningDuplicateRoute WarningKind = "DUPLICATE_ROUTE"

	// WarningShadowedRoute: every request the route could match is
	// already taken by an earlier route with the same method.
	WarningShadowedRoute WarningKind = "SHADOWED_ROUTE"

	// WarningDuplicateCapture: a pattern uses one capture name twice, so
	// the later segment's value replaces the earlier one.
	WarningDuplicateCapture WarningKind = "DUPLICATE_CAPTURE"
)

// Warning is a problem found in a route table. Warnings never change how
// requests are dispatched.
type Warning struct {
	Kind    WarningKind
	Route   RouteInfo
	By      *RouteInfo
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// Validate checks the route table for registrations that cannot behave
// as their author probably intended. The result is ordered by route.
func (r *Router[S]) Validate() []Warning {
	var warnings []Warning

	for i, rt := range r.routes {
		warnings = append(warnings, duplicateCaptures(rt.info(), rt.pattern)...)

		for _, earlier := range r.routes[:i] {
			if earlier.method != rt.method {
				continue
			}
			by := earlier.info()
			if earlier.pattern.String() == rt.pattern.String() {
				msg := fmt.Sprintf("%s %s is registered at positions %d and %d",
					rt.method, rt.pattern, earlier.index, rt.index)
				warnings = append(warnings, Warning{
					Kind:    WarningDuplicateRoute,
					Route:   rt.info(),
					By:      &by,
					Message: msg,
				})
				break
			}
			if earlier.pattern.Covers(rt.pattern) {
				msg := fmt.Sprintf("%s %s (position %d) is unreachable: %s (position %d) matches first",
					rt.method, rt.pattern, rt.index, earlier.pattern, earlier.index)
				warnings = append(warnings, Warning{
					Kind:    WarningShadowedRoute,
					Route:   rt.info(),
					By:      &by,
					Message: msg,
				})
				break
			}
		}
	}

	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Route.Index < warnings[j].Route.Index
	})
	return warnings
}

func duplicateCaptures(info RouteInfo, p *Pattern) []Warning {
	var warnings []Warning
	seen := make(map[string]bool)
	for _, name := range p.CaptureNames() {
		if seen[name] {
			warnings = append(warnings, Warning{
				Kind:    WarningDuplicateCapture,
				Route:   info,
				Message: fmt.Sprintf("%s %s captures %q more than once", info.Method, info.Pattern, name),
			})
			continue
		}
		seen[name] = true
	}
	return warnings
}
