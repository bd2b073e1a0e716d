package entity

import "time"

// IsExpired reports whether a snapshot fetched at fetchedAt must be refreshed at now.
//
// The check compares calendar hours of the day, read in now's location, and is not an
// elapsed-time TTL: 13:59 is stale at 14:00, while 23:10 yesterday is still fresh at 00:05
// today because the hour difference is negative.
func IsExpired(fetchedAt, now time.Time) bool {
	return now.Hour()-fetchedAt.In(now.Location()).Hour() > 0
}
