package retry

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDoWithResult(t *testing.T) {
	Convey("Given a function that fails twice then succeeds", t, func() {
		attempts := 0
		fn := func() (int, error) {
			attempts++
			if attempts < 3 {
				return 0, errors.New("transient")
			}
			return 42, nil
		}

		Convey("It should retry until success", func() {
			result, err := DoWithResult(fn, WithDelay(time.Millisecond))
			So(err, ShouldBeNil)
			So(result, ShouldEqual, 42)
			So(attempts, ShouldEqual, 3)
		})
	})

	Convey("Given a function that always fails", t, func() {
		boom := errors.New("boom")
		fn := func() (int, error) {
			return 0, boom
		}

		Convey("It should give up after the max retry count", func() {
			_, err := DoWithResult(fn, WithRetryCount(2), WithDelay(time.Millisecond))
			So(err, ShouldNotBeNil)
			So(errors.Is(err, boom), ShouldBeTrue)
		})
	})
}
