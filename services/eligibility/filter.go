// Package eligibility narrows the barber list to those able to perform the
// selected services.
package eligibility

import "barberbook/models"

// Filter returns the candidates qualified for every tier the selection asks
// for. The "Any Available" sentinel is kept in every branch.
//
// Precedence:
//  1. no services: candidates unchanged
//  2. master and senior services: master or senior barbers
//  3. master services only: master barbers
//  4. senior services only: senior or master barbers
//  5. untiered services: candidates unchanged
func Filter(selected []models.Service, candidates []models.Provider) []models.Provider {
	if len(selected) == 0 {
		return clone(candidates)
	}

	var wants models.ProviderTier
	for _, s := range selected {
		wants |= s.RequiredTier
	}

	var keep models.ProviderTier
	switch {
	case wants.Has(models.TierMaster) && wants.Has(models.TierSenior):
		keep = models.TierMaster | models.TierSenior
	case wants.Has(models.TierMaster):
		keep = models.TierMaster
	case wants.Has(models.TierSenior):
		// master barbers can do senior work
		keep = models.TierSenior | models.TierMaster
	default:
		return clone(candidates)
	}

	out := make([]models.Provider, 0, len(candidates))
	for _, p := range candidates {
		if p.IsSentinel() || p.Tier.Has(keep) {
			out = append(out, p)
		}
	}
	return out
}

func clone(in []models.Provider) []models.Provider {
	if in == nil {
		return nil
	}
	return append([]models.Provider(nil), in...)
}
