package navigation_test

import (
	"context"
	"testing"

	"github.com/okian/lumina/internal/adapters/navigation"
	"github.com/okian/lumina/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestOutbox(t *testing.T) {
	convey.Convey("Given an outbox", t, func() {
		ctx := context.Background()
		o := navigation.NewOutbox()

		convey.Convey("When nothing was navigated", func() {
			_, ok := o.Last()
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(o.Drain(), convey.ShouldBeEmpty)
		})

		convey.Convey("When intents are recorded", func() {
			o.Navigate(ctx, "a")
			o.Navigate(ctx, "b")

			convey.Convey("Then Last returns the latest and empties the outbox", func() {
				id, ok := o.Last()
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(id, convey.ShouldEqual, "b")
				convey.So(o.Drain(), convey.ShouldBeEmpty)
			})

			convey.Convey("Then Drain returns them in order", func() {
				convey.So(o.Drain(), convey.ShouldResemble, []string{"a", "b"})
			})
		})
	})
}

func TestLoggingAndTee(t *testing.T) {
	convey.Convey("Given a logging navigator teeing into two outboxes", t, func() {
		first, second := navigation.NewOutbox(), navigation.NewOutbox()
		nav := navigation.Logging(navigation.Tee(first, nil, second), logger.Get())

		nav.Navigate(context.Background(), "dune")

		convey.So(first.Drain(), convey.ShouldResemble, []string{"dune"})
		convey.So(second.Drain(), convey.ShouldResemble, []string{"dune"})
	})
}

func TestBookPath(t *testing.T) {
	convey.Convey("BookPath escapes ids", t, func() {
		convey.So(navigation.BookPath("b1"), convey.ShouldEqual, "/books/b1")
		convey.So(navigation.BookPath("a/b"), convey.ShouldEqual, "/books/a%2Fb")
	})
}
