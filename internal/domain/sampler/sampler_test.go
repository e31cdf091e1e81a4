package sampler_test

import (
	"errors"
	"testing"

	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/domain/sampler"
	"github.com/okian/gamemash/internal/errs"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSampler_Sample(t *testing.T) {
	Convey("Given a seeded sampler", t, func() {
		s := sampler.New(sampler.WithSeed(42))

		Convey("When the catalog has one item", func() {
			_, _, err := s.Sample([]catalog.Item{"X"})

			Convey("Then it fails with an insufficient catalog error", func() {
				So(errors.Is(err, errs.ErrInsufficientCatalog), ShouldBeTrue)
			})
		})

		Convey("When the catalog is empty", func() {
			_, _, err := s.Sample(nil)
			So(errors.Is(err, errs.ErrInsufficientCatalog), ShouldBeTrue)
		})

		Convey("When the slice repeats a single item", func() {
			_, _, err := s.Sample([]catalog.Item{"X", "X", "X"})
			So(errors.Is(err, errs.ErrInsufficientCatalog), ShouldBeTrue)
		})

		Convey("When the catalog has two items", func() {
			items := []catalog.Item{"X", "Y"}

			Convey("Then every draw returns both items in some order", func() {
				for i := 0; i < 200; i++ {
					a, b, err := s.Sample(items)
					So(err, ShouldBeNil)
					So(a, ShouldNotEqual, b)
					So([]catalog.Item{"X", "Y"}, ShouldContain, a)
					So([]catalog.Item{"X", "Y"}, ShouldContain, b)
				}
			})
		})

		Convey("When sampling the default catalog many times", func() {
			items := catalog.Default().Items()
			seenA := map[catalog.Item]int{}

			for i := 0; i < 5000; i++ {
				a, b, err := s.Sample(items)
				So(err, ShouldBeNil)
				So(a, ShouldNotEqual, b)
				So(items, ShouldContain, a)
				So(items, ShouldContain, b)
				seenA[a]++
			}

			Convey("Then every item is drawn as A", func() {
				So(len(seenA), ShouldEqual, len(items))
				for _, n := range seenA {
					So(n, ShouldBeGreaterThan, 300)
				}
			})
		})
	})

	Convey("Given two samplers with the same seed", t, func() {
		items := catalog.Default().Items()
		s1 := sampler.New(sampler.WithSeed(7))
		s2 := sampler.New(sampler.WithSeed(7))

		Convey("Then they draw the same sequence", func() {
			for i := 0; i < 20; i++ {
				a1, b1, _ := s1.Sample(items)
				a2, b2, _ := s2.Sample(items)
				So(a1, ShouldEqual, a2)
				So(b1, ShouldEqual, b2)
			}
		})
	})
}
