package ledger

// findDuplicate scans the chain for an attendance entry with the same
// subject and calendar date. Genesis never matches: its payload carries
// sentinel values no validated append can produce.
func findDuplicate(recs []Record, subjectID, date string) (Record, bool) {
	for _, r := range recs {
		if r.Payload.SubjectID == subjectID && r.Payload.Date == date {
			return r, true
		}
	}
	return Record{}, false
}

// FindEntry reports whether subjectID already has an entry on date, and
// returns the record when one exists.
func (c *Chain) FindEntry(subjectID, date string) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return findDuplicate(c.recs, subjectID, date)
}
