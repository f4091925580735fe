package storage

import "go.mongodb.org/mongo-driver/bson"

// Patch types carry one pointer per mutable attribute: only non-nil
// fields are applied, nil fields leave the stored value untouched.
// Immutable fields (ids, email, owner and blob references) have no
// patch field, so attempting to change them does not compile.

type UserPatch struct {
	Username     *string
	PasswordHash *string
}

func (p UserPatch) set() bson.M {
	m := bson.M{}
	if p.Username != nil {
		m["username"] = *p.Username
	}
	if p.PasswordHash != nil {
		m["password"] = *p.PasswordHash
	}
	return m
}

type PhasePatch struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

type MethodologyPatch struct {
	Planning  *PhasePatch `json:"planning"`
	Execution *PhasePatch `json:"execution"`
	Review    *PhasePatch `json:"review"`
}

type ProjectPatch struct {
	Name        *string
	Description *string
	Methodology *MethodologyPatch
}

func (p ProjectPatch) set() bson.M {
	m := bson.M{}
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.Methodology != nil {
		addPhase(m, "methodology.planning", p.Methodology.Planning)
		addPhase(m, "methodology.execution", p.Methodology.Execution)
		addPhase(m, "methodology.review", p.Methodology.Review)
	}
	return m
}

// addPhase flattens a phase patch into dotted leaf paths so a patch
// touching one leaf leaves the sibling leaves alone.
func addPhase(m bson.M, prefix string, phase *PhasePatch) {
	if phase == nil {
		return
	}
	if phase.Status != nil {
		m[prefix+".status"] = *phase.Status
	}
	if phase.Notes != nil {
		m[prefix+".notes"] = *phase.Notes
	}
}

type FilePatch struct {
	Filename       *string `json:"filename"`
	Group          *string `json:"group"`
	RestrictAccess *bool   `json:"restrict_access"`
}

func (p FilePatch) set() bson.M {
	m := bson.M{}
	if p.Filename != nil {
		m["filename"] = *p.Filename
	}
	if p.Group != nil {
		m["group"] = *p.Group
	}
	if p.RestrictAccess != nil {
		m["restrict_access"] = *p.RestrictAccess
	}
	return m
}
