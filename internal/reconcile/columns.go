package reconcile

import (
	"strings"

	"github.com/ginjaninja78/weight-reconciler/internal/dataset"
)

// =============================================================================
// COLUMN ROLES
// =============================================================================

// Role is a semantic column the reconciliation needs, together with the
// header names that may carry it, in priority order.
type Role struct {
	// Name is the label reported when the role cannot be resolved.
	Name string

	// Candidates are tried in order; see ResolveColumn.
	Candidates []string
}

// Roles for the shipment manifest (Fichier 1).
var (
	RoleTruck = Role{
		Name:       "Camions (Fichier 1)",
		Candidates: []string{"Camions", "Camion"},
	}
	RoleQuantity = Role{
		Name:       "Qté facturées (Fichier 1)",
		Candidates: []string{"Qté facturées", "Qte facturees", "Qté", "Qte facturées"},
	}
	RoleProduct = Role{
		Name:       "Produits (Fichier 1)",
		Candidates: []string{"Produits", "Produit"},
	}
)

// Roles for the reference weight ledger (Fichier 2).
var (
	// RoleResource lists "Ressource" twice. The second entry was most likely
	// meant to be a synonym; it stays literal until the intended name is known.
	RoleResource = Role{
		Name:       "Ressource (Fichier 2)",
		Candidates: []string{"Ressource", "Ressource"},
	}
	RoleNetWeight = Role{
		Name:       "Total poids net (Fichier 2)",
		Candidates: []string{"Total poids net", "Poids net", "Total Poids Net"},
	}
)

// ManifestRoles returns the manifest roles in reporting order.
func ManifestRoles() []Role {
	return []Role{RoleTruck, RoleQuantity, RoleProduct}
}

// LedgerRoles returns the ledger roles in reporting order.
func LedgerRoles() []Role {
	return []Role{RoleResource, RoleNetWeight}
}

// =============================================================================
// RESOLUTION
// =============================================================================

// ResolveColumn returns the first header matching any candidate.
//
// Candidates are tried in order. For each candidate three passes run over all
// headers: exact equality, then trimmed case-insensitive equality, then
// case-insensitive containment (the header contains the candidate). The
// first hit ends the search, so a later candidate is never tried once an
// earlier one matched through any pass.
//
// RETURNS:
//   - The matching header, as written in the dataset.
//   - false when no candidate matches.
func ResolveColumn(headers, candidates []string) (string, bool) {
	for _, candidate := range candidates {
		lowered := strings.ToLower(candidate)

		for _, h := range headers {
			if h == candidate {
				return h, true
			}
		}

		for _, h := range headers {
			if strings.ToLower(trimSpace(h)) == lowered {
				return h, true
			}
		}

		for _, h := range headers {
			if strings.Contains(strings.ToLower(h), lowered) {
				return h, true
			}
		}
	}
	return "", false
}

// Bindings holds the concrete headers resolved for one comparison run.
type Bindings struct {
	Truck     string
	Quantity  string
	Product   string
	Resource  string
	NetWeight string
}

// ResolveBindings resolves all five roles against the two datasets. Every
// unresolved role is collected; if any is missing the returned error is a
// *ColumnResolutionError and the bindings must not be used.
func ResolveBindings(first, second *dataset.Dataset) (Bindings, error) {
	headers1 := first.HeaderList()
	headers2 := second.HeaderList()

	var (
		b       Bindings
		missing []string
	)

	resolve := func(headers []string, role Role, dst *string) {
		if h, ok := ResolveColumn(headers, role.Candidates); ok {
			*dst = h
			return
		}
		missing = append(missing, role.Name)
	}

	resolve(headers1, RoleTruck, &b.Truck)
	resolve(headers1, RoleQuantity, &b.Quantity)
	resolve(headers1, RoleProduct, &b.Product)
	resolve(headers2, RoleResource, &b.Resource)
	resolve(headers2, RoleNetWeight, &b.NetWeight)

	if len(missing) > 0 {
		return Bindings{}, &ColumnResolutionError{
			Missing:       missing,
			FirstHeaders:  append([]string(nil), headers1...),
			SecondHeaders: append([]string(nil), headers2...),
		}
	}
	return b, nil
}
