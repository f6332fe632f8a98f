package items

// parseWeekday matches "[offset] weekday [,]", as in "next friday" or
// "tues,".
func parseWeekday(s *Scanner) (WeekdayRef, error) {
	n, _, err := optional(s, offset)
	if err != nil {
		return WeekdayRef{}, err
	}
	wd, err := lexeme(lookup(weekdays, "weekday"))(s)
	if err != nil {
		return WeekdayRef{}, err
	}
	if _, _, err := optional(s, lexeme(char(','))); err != nil {
		return WeekdayRef{}, err
	}
	return WeekdayRef{Weekday: wd, Offset: n}, nil
}
