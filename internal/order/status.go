package order

var statusRank = map[string]int{
	StatusNew:       0,
	StatusOnProcess: 1,
	StatusDone:      2,
}

var itemStatusRank = map[string]int{
	ItemStatusPending:   0,
	ItemStatusPreparing: 1,
	ItemStatusReady:     2,
	ItemStatusServed:    3,
}

func ValidStatus(status string) bool {
	_, ok := statusRank[status]
	return ok
}

func ValidItemStatus(status string) bool {
	if status == ItemStatusCancelled {
		return true
	}
	_, ok := itemStatusRank[status]
	return ok
}

// CanTransition reports whether an order may move from one status to
// another. Transitions are forward-only; done is terminal.
func CanTransition(from, to string) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// ReleasesTable reports whether an order reaching status hands its table
// back to the floor. Only done does; deletion always releases and does not
// go through here.
func ReleasesTable(status string) bool {
	return status == StatusDone
}

// CanTransitionItem enforces the kitchen workflow: pending → preparing →
// ready → served, with cancellation allowed only from pending or preparing.
func CanTransitionItem(from, to string) bool {
	if to == ItemStatusCancelled {
		return from == ItemStatusPending || from == ItemStatusPreparing
	}
	fromRank, ok := itemStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := itemStatusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// DeliveryEligible reports whether an item can be picked up for serving.
// Items that skip the kitchen are eligible as soon as they exist; cook items
// only once the kitchen marks them ready.
func DeliveryEligible(isCook bool, status string) bool {
	if isCook {
		return status == ItemStatusReady
	}
	switch status {
	case ItemStatusPending, ItemStatusPreparing, ItemStatusReady:
		return true
	}
	return false
}
