// Package preset holds the built-in gym machine catalog used for
// autocomplete and new-exercise defaults. Cardio and sports have no
// presets; those entries are always free text.
package preset

import "github.com/claude/fitlog/internal/models"

// Machine is one catalog entry with the weight to prefill when the
// machine is picked.
type Machine struct {
	Name          string          `json:"name"`
	Category      models.Category `json:"category"`
	DefaultWeight float64         `json:"defaultWeight"`
}

// CommonReps and CommonSets are the quick-pick values offered when
// logging an exercise.
var (
	CommonReps = []int{6, 8, 10, 12, 15, 20}
	CommonSets = []int{2, 3, 4, 5}
)

// Machines is the full catalog keyed by category.
var Machines = map[models.Category][]Machine{
	models.CategoryLegs: {
		{Name: "Leg Press", Category: models.CategoryLegs, DefaultWeight: 60},
		{Name: "Leg Curl", Category: models.CategoryLegs, DefaultWeight: 25},
		{Name: "Leg Extension", Category: models.CategoryLegs, DefaultWeight: 30},
		{Name: "Calf Raise", Category: models.CategoryLegs, DefaultWeight: 40},
		{Name: "Hip Abductor", Category: models.CategoryLegs, DefaultWeight: 35},
		{Name: "Hip Adductor", Category: models.CategoryLegs, DefaultWeight: 35},
		{Name: "Hack Squat", Category: models.CategoryLegs, DefaultWeight: 40},
		{Name: "Glute Kickback", Category: models.CategoryLegs, DefaultWeight: 20},
	},
	models.CategoryChest: {
		{Name: "Chest Press", Category: models.CategoryChest, DefaultWeight: 30},
		{Name: "Incline Press", Category: models.CategoryChest, DefaultWeight: 25},
		{Name: "Pec Fly", Category: models.CategoryChest, DefaultWeight: 20},
		{Name: "Cable Crossover", Category: models.CategoryChest, DefaultWeight: 15},
		{Name: "Decline Press", Category: models.CategoryChest, DefaultWeight: 30},
	},
	models.CategoryBack: {
		{Name: "Lat Pulldown", Category: models.CategoryBack, DefaultWeight: 35},
		{Name: "Seated Row", Category: models.CategoryBack, DefaultWeight: 40},
		{Name: "Cable Row", Category: models.CategoryBack, DefaultWeight: 35},
		{Name: "Back Extension", Category: models.CategoryBack, DefaultWeight: 0},
		{Name: "Assisted Pull-up", Category: models.CategoryBack, DefaultWeight: 30},
		{Name: "T-Bar Row", Category: models.CategoryBack, DefaultWeight: 20},
	},
	models.CategoryShoulders: {
		{Name: "Shoulder Press", Category: models.CategoryShoulders, DefaultWeight: 20},
		{Name: "Lateral Raise", Category: models.CategoryShoulders, DefaultWeight: 8},
		{Name: "Rear Delt Fly", Category: models.CategoryShoulders, DefaultWeight: 10},
		{Name: "Face Pull", Category: models.CategoryShoulders, DefaultWeight: 15},
		{Name: "Upright Row", Category: models.CategoryShoulders, DefaultWeight: 15},
	},
	models.CategoryArms: {
		{Name: "Bicep Curl", Category: models.CategoryArms, DefaultWeight: 10},
		{Name: "Tricep Pushdown", Category: models.CategoryArms, DefaultWeight: 20},
		{Name: "Tricep Extension", Category: models.CategoryArms, DefaultWeight: 15},
		{Name: "Preacher Curl", Category: models.CategoryArms, DefaultWeight: 15},
		{Name: "Cable Curl", Category: models.CategoryArms, DefaultWeight: 15},
		{Name: "Hammer Curl", Category: models.CategoryArms, DefaultWeight: 10},
	},
	models.CategoryCore: {
		{Name: "Cable Crunch", Category: models.CategoryCore, DefaultWeight: 30},
		{Name: "Ab Machine", Category: models.CategoryCore, DefaultWeight: 25},
		{Name: "Torso Rotation", Category: models.CategoryCore, DefaultWeight: 20},
		{Name: "Hanging Leg Raise", Category: models.CategoryCore, DefaultWeight: 0},
		{Name: "Plank", Category: models.CategoryCore, DefaultWeight: 0},
	},
}

// ForCategory returns the presets for one category, or nil for
// categories without presets.
func ForCategory(c models.Category) []Machine {
	return Machines[c]
}

// Find looks up a preset by name across all categories,
// case-sensitively; the catalog controls its own casing.
func Find(name string) (Machine, bool) {
	for _, list := range Machines {
		for _, m := range list {
			if m.Name == name {
				return m, true
			}
		}
	}
	return Machine{}, false
}
