// Package scenarios assembles every ServeRest suite.
package scenarios

import (
	"serverest-suite/internal/scenarios/carts"
	"serverest-suite/internal/scenarios/login"
	"serverest-suite/internal/scenarios/products"
	"serverest-suite/internal/scenarios/suite"
	"serverest-suite/internal/scenarios/users"
)

// All returns every scenario in a stable order: login, users, products, carts.
func All() []suite.Scenario {
	var out []suite.Scenario
	out = append(out, login.Scenarios()...)
	out = append(out, users.Scenarios()...)
	out = append(out, products.Scenarios()...)
	out = append(out, carts.Scenarios()...)
	return out
}

// ByID indexes scenarios by their ID.
func ByID(all []suite.Scenario) map[string]suite.Scenario {
	m := make(map[string]suite.Scenario, len(all))
	for _, sc := range all {
		m[sc.ID] = sc
	}
	return m
}
