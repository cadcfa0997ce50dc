// player/service/loyalty.go
package service

import (
	"time"

	"github.com/Ftotnem/FIFA-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson"
)

// LoyaltyYears is the tenure at which a player counts as loyal.
const LoyaltyYears = 10

// LoyalPlayer is one Loyalty Filter hit. It encodes to JSON as the stored
// document in extended JSON, so identifiers keep their store-native
// {"$oid": ...} form rather than the hex strings other endpoints return.
type LoyalPlayer struct {
	Raw    bson.Raw
	Player *models.Player
	Years  int
}

// MarshalJSON implements json.Marshaler.
func (lp LoyalPlayer) MarshalJSON() ([]byte, error) {
	return bson.MarshalExtJSON(lp.Raw, false, false)
}

// YearsBetween counts the complete years from from to to, in UTC.
// An anniversary that falls on a day the target month lacks (29 February)
// lands on the month's last day.
func YearsBetween(from, to time.Time) int {
	from, to = from.UTC(), to.UTC()
	years := to.Year() - from.Year()
	if addYears(from, years).After(to) {
		years--
	}
	return years
}

func addYears(t time.Time, n int) time.Time {
	y, m, d := t.Year()+n, t.Month(), t.Day()
	if last := daysIn(y, m); d > last {
		d = last
	}
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
