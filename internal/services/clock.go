package services

import "time"

// Clock returns the current time; tests replace it.
type Clock func() time.Time

const dateLayout = "2006-01-02"

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
