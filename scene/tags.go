package scene

import (
	"strings"
)

// Tag is a capability bitmask assigned once at load time. Animation code
// queries tags instead of re-matching entity names every tick.
type Tag uint32

const (
	TagNone Tag = 0

	TagAtrium    Tag = 1 << 0
	TagVentricle Tag = 1 << 1
	TagArtery    Tag = 1 << 2
	TagVein      Tag = 1 << 3

	TagUpperJaw Tag = 1 << 4
	TagLowerJaw Tag = 1 << 5

	TagLeft  Tag = 1 << 6
	TagRight Tag = 1 << 7

	// Lower-limb moving parts (tibia, fibula, foot bones, calf muscles)
	TagLowerLimb Tag = 1 << 8
	// Full-limb signal targets (everything on the leg, upper and lower)
	TagLimb Tag = 1 << 9
	// Preferred hinge pivot reference (distal femur cartilage)
	TagHingePivotRef Tag = 1 << 10
	// Fallback pivot parent (femur bone)
	TagHingeParent Tag = 1 << 11

	// Either jaw half, the bite-cycle signal target
	TagJaw Tag = 1 << 12
)

// Has reports whether t contains all bits of q.
func (t Tag) Has(q Tag) bool {
	return t&q == q
}

// lower-limb part names from the visible-human dataset, matched once at load
var lowerLimbParts = []string{
	"Bone_Tibia", "Bone_Fibula", "Bone_Patella",
	"Bone_Calcaneous", "Bone_Cuboid", "Bone_IntermediateCuneiform",
	"Bone_LateralCuneiform", "Bone_MedialCuneiform", "Bone_Navicular",
	"Bone_Phalanges", "Bone_Talus",
	"Cartilage_TibiaDistal", "Cartilage_TibiaLateral", "Cartilage_TibiaMedial",
	"Cartilage_Patella", "Cartilage_Talus",
	"Muscle_ExtensorDigitorumLongus", "Muscle_ExtensorHallucisLongus",
	"Muscle_FlexorDigitorumLongus", "Muscle_FlexorHallucisLongus",
	"Muscle_GastrocnemiusLateral", "Muscle_GastrocnemiusMedial",
	"Muscle_PeroneusLongus", "Muscle_Plantaris", "Muscle_Popliteus",
	"Muscle_Soleus", "Muscle_TibialisAnterior", "Muscle_TibialisPosterior",
}

// Classify derives capability tags from a load-time entity name. This is the
// single place name conventions are interpreted; everything downstream works
// on tags.
func Classify(name string) Tag {
	var tags Tag
	lower := strings.ToLower(name)

	switch {
	case strings.Contains(lower, "atrium"), strings.Contains(lower, "atria"):
		tags |= TagAtrium
	case strings.Contains(lower, "ventricle"):
		tags |= TagVentricle
	}
	if strings.Contains(lower, "artery") || strings.Contains(lower, "aorta") {
		tags |= TagArtery
	}
	if strings.Contains(lower, "vein") || strings.Contains(lower, "cava") {
		tags |= TagVein
	}
	if strings.Contains(lower, "upper") {
		tags |= TagUpperJaw | TagJaw
	}
	if strings.Contains(lower, "lower") {
		tags |= TagLowerJaw | TagJaw
	}

	// Visible-human limb naming: VHF_<Side>_<Part>[_smooth]
	if part, side, ok := splitLimbName(name); ok {
		switch side {
		case "Left":
			tags |= TagLeft
		case "Right":
			tags |= TagRight
		}

		// Pelvis, sacrum and coccyx are attached but are not leg
		if !strings.Contains(part, "Pelvis") && !strings.Contains(part, "Sacrum") &&
			!strings.Contains(part, "Coccyx") {
			tags |= TagLimb
		}
		for _, p := range lowerLimbParts {
			if part == p {
				tags |= TagLowerLimb
				break
			}
		}
		if part == "Cartilage_FemurDistal" {
			tags |= TagHingePivotRef
		}
		if part == "Bone_Femur" {
			tags |= TagHingeParent
		}
	}

	return tags
}

func splitLimbName(name string) (part, side string, ok bool) {
	const prefix = "VHF_"
	if !strings.HasPrefix(name, prefix) {
		return "", "", false
	}
	rest := name[len(prefix):]
	idx := strings.IndexByte(rest, '_')
	if idx < 0 {
		return "", "", false
	}
	side = rest[:idx]
	part = strings.TrimSuffix(rest[idx+1:], "_smooth")
	return part, side, true
}
