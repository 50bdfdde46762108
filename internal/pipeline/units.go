package pipeline

// ExtractUnits walks the full resolved declaration tree and selects every
// declaration eligible for a verification obligation. Membership is
// conjunctive: the project default must enable verification, the module
// must request verification of its members, the declaration must request
// an obligation, its own verify-flag must allow one, and synthesized or
// ghost declarations never qualify.
func ExtractUnits(resolved *ResolvedUnit, projectDefault bool) []VerifiableUnit {
	if resolved == nil || !projectDefault {
		return nil
	}
	var units []VerifiableUnit
	for _, mod := range resolved.Modules {
		if !mod.VerifyMembers {
			continue
		}
		for _, decl := range mod.Decls {
			units = appendUnits(units, mod.Name, decl)
		}
	}
	return units
}

func appendUnits(units []VerifiableUnit, module string, decl *Decl) []VerifiableUnit {
	if decl == nil {
		return units
	}
	if decl.WantsVerification && decl.Verify && !decl.Synthesized && !decl.Ghost {
		units = append(units, VerifiableUnit{
			Module: module,
			Name:   decl.Name,
			Span:   decl.Span,
		})
	}
	for _, child := range decl.Children {
		units = appendUnits(units, module, child)
	}
	return units
}
