package entities

type SlotDetails struct {
	SlotType SlotType `json:"slot_type"`
	Label    string   `json:"label"`
	Time     string   `json:"time"`
	Duration string   `json:"duration"`
	Price    int      `json:"price"`
}
