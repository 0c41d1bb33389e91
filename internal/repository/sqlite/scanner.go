package sqlite

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanSession scans the stored session row
func ScanSession(scanner Scanner) (*Session, error) {
	session := &Session{}
	var savedAt string

	if err := scanner.Scan(&session.Token, &session.Username, &savedAt); err != nil {
		return nil, err
	}

	t, err := ParseTimeFromDB(savedAt)
	if err != nil {
		return nil, err
	}
	session.SavedAt = t

	return session, nil
}

// ScanPlanEntry scans a single plan entry from a database row
func ScanPlanEntry(scanner Scanner) (*PlanEntry, error) {
	entry := &PlanEntry{}
	err := scanner.Scan(
		&entry.PlanDate,
		&entry.EntryID,
		&entry.TodoID,
		&entry.Title,
		&entry.Color,
		&entry.StartSlot,
		&entry.DurationSlots,
		&entry.Position,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ScanPlanEntries scans multiple plan entries from database rows
func ScanPlanEntries(rows Rows) ([]*PlanEntry, error) {
	var entries []*PlanEntry
	for rows.Next() {
		entry, err := ScanPlanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// ScanPlanDates scans a single-column list of plan dates
func ScanPlanDates(rows Rows) ([]*string, error) {
	var dates []*string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dates, nil
}
