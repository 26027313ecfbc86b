package entity

// Roster is the ordered list of player IDs connected to a room.
// Insertion order is join order and doubles as turn order.
type Roster []string

func (that Roster) Size() int {
	return len(that)
}

func (that Roster) Contains(playerID string) bool {
	return that.indexOf(playerID) != -1
}

// Add appends playerID unless it is already present.
// It reports whether the roster changed.
func (that *Roster) Add(playerID string) bool {
	if that.Contains(playerID) {
		return false
	}

	*that = append(*that, playerID)

	return true
}

// Remove deletes playerID from the roster, keeping the order of the
// remaining players. It reports whether the roster changed.
func (that *Roster) Remove(playerID string) bool {
	idx := that.indexOf(playerID)
	if idx == -1 {
		return false
	}

	*that = append((*that)[:idx], (*that)[idx+1:]...)

	return true
}

// NextAfter returns the player whose turn follows currentID. It is the
// single source of truth for turn rotation: an empty roster yields "",
// an empty or unknown currentID yields the first player, and the last
// player wraps around to the first.
func (that Roster) NextAfter(currentID string) string {
	if len(that) == 0 {
		return ""
	}

	idx := that.indexOf(currentID)
	if currentID == "" || idx == -1 {
		return that[0]
	}

	if idx == len(that)-1 {
		return that[0]
	}

	return that[idx+1]
}

func (that Roster) indexOf(playerID string) int {
	for i, id := range that {
		if id == playerID {
			return i
		}
	}

	return -1
}
