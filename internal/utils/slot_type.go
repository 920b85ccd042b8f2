package utils

import "charterbook/internal/entities"

var slotCatalogue = map[entities.SlotType]entities.SlotDetails{
	entities.SlotAM: {
		SlotType: entities.SlotAM,
		Label:    "Half-Day Morning",
		Time:     "6:00 AM – 12:00 PM",
		Duration: "6 hours",
		Price:    350,
	},
	entities.SlotPM: {
		SlotType: entities.SlotPM,
		Label:    "Half-Day Afternoon",
		Time:     "1:00 PM – 7:00 PM",
		Duration: "6 hours",
		Price:    350,
	},
	entities.SlotFull: {
		SlotType: entities.SlotFull,
		Label:    "Full Day",
		Time:     "6:00 AM – 4:00 PM",
		Duration: "10 hours",
		Price:    600,
	},
}

// SlotDetailsFor returns the trip description of slot. Unknown slots get a
// bare entry carrying only the slot type.
func SlotDetailsFor(slot entities.SlotType) entities.SlotDetails {
	if d, ok := slotCatalogue[slot]; ok {
		return d
	}
	return entities.SlotDetails{SlotType: slot, Label: string(slot)}
}

// AllSlotDetails lists the catalogue in display order.
func AllSlotDetails() []entities.SlotDetails {
	out := make([]entities.SlotDetails, 0, len(entities.SlotTypes))
	for _, s := range entities.SlotTypes {
		out = append(out, slotCatalogue[s])
	}
	return out
}
