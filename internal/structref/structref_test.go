package structref

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type sample struct {
	Host string
	Type string
}

type empty struct{}

func TestSerialize(t *testing.T) {
	Convey("Calling Serialize", t, func() {

		Convey("On a plain struct", func() {
			expected := sample{Host: "world", Type: "foo"}
			actual := roundTrip(expected)
			Convey("It should be same after the round trip", func() {
				So(actual, ShouldResemble, expected)
			})
		})

		Convey("On a struct pointer", func() {
			expected := &sample{Host: "world", Type: "foo"}
			actual := roundTrip(expected)
			Convey("It should be same after the round trip", func() {
				So(actual, ShouldResemble, expected)
			})
			Convey("Its instance should not be same after the round trip", func() {
				So(actual, ShouldNotEqual, expected)
			})
		})

		Convey("On a struct slice", func() {
			expected := []sample{{Host: "hello"}, {Host: "world"}}
			actual := roundTrip(expected)
			Convey("It should be same after the round trip", func() {
				So(actual, ShouldResemble, expected)
			})
		})

		Convey("On an empty-field struct", func() {
			expected := empty{}
			actual := roundTrip(expected)
			Convey("It should be same after the round trip", func() {
				So(actual, ShouldResemble, expected)
			})
		})

		Convey("On a primitive", func() {
			expected := 3
			actual := roundTrip(expected)
			Convey("It should be same after the round trip", func() {
				So(actual, ShouldResemble, expected)
			})
		})
	})
}

func roundTrip(v interface{}) interface{} {
	s, err := Serialize(v)
	if err != nil {
		panic(err)
	}
	vv, err := Deserialize(s)
	if err != nil {
		panic(err)
	}
	return vv
}
