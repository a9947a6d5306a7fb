package msync

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/CursedRock17/message-filters/core"
)

func pairTuple(a, b int64) core.Tuple {
	return core.Tuple{evt(a), evt(b)}
}

func TestCacheEvictsOldestBeyondCapacity(t *testing.T) {
	Convey("Given a Cache with capacity 2", t, func() {
		c := NewCache(2)

		Convey("When three tuples are written in increasing timestamp order", func() {
			c.Write(pairTuple(100, 100))
			c.Write(pairTuple(200, 200))
			c.Write(pairTuple(300, 300))

			Convey("Then only the two most recent are retained", func() {
				So(c.Len(), ShouldEqual, 2)
				_, ok := c.Nearest(100)
				So(ok, ShouldBeTrue) // Nearest still finds the closest retained entry

				nearest, ok := c.Nearest(300)
				So(ok, ShouldBeTrue)
				So(nearest[0].Timestamp, ShouldEqual, core.Timestamp(300))
			})
		})
	})
}

func TestCacheNearestBreaksTowardsCloserEntry(t *testing.T) {
	Convey("Given a Cache holding tuples at t=100 and t=200", t, func() {
		c := NewCache(10)
		c.Write(pairTuple(100, 100))
		c.Write(pairTuple(200, 200))

		Convey("When Nearest is queried at t=170", func() {
			nearest, ok := c.Nearest(170)

			Convey("Then the t=200 tuple is returned as the closer one", func() {
				So(ok, ShouldBeTrue)
				So(nearest[0].Timestamp, ShouldEqual, core.Timestamp(200))
			})
		})
	})
}

func TestCacheNearestEmpty(t *testing.T) {
	Convey("Given an empty Cache", t, func() {
		c := NewCache(4)

		Convey("When Nearest is queried", func() {
			_, ok := c.Nearest(100)

			Convey("Then it reports nothing found", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}
