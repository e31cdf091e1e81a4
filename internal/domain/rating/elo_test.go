package rating_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/domain/model"
	"github.com/okian/gamemash/internal/domain/rating"
	"github.com/okian/gamemash/internal/errs"
	. "github.com/smartystreets/goconvey/convey"
)

const epsilon = 1e-9

// mapRatings is a minimal Ratings backed by a map.
type mapRatings map[catalog.Item]float64

func (m mapRatings) Rating(item catalog.Item) (float64, bool) {
	r, ok := m[item]
	return r, ok
}

func (m mapRatings) SetRating(item catalog.Item, r float64) error {
	if _, ok := m[item]; !ok {
		return errs.Invalid("test.set", "unknown item")
	}
	m[item] = r
	return nil
}

func TestExpectedScore(t *testing.T) {
	Convey("Given pairs of ratings", t, func() {
		pairs := [][2]float64{
			{1000, 1000}, {1016, 984}, {1500, 900}, {-300, 2400}, {0, 0.001}, {1e4, -1e4},
		}

		Convey("Then the two expectations are complements", func() {
			for _, p := range pairs {
				sum := rating.ExpectedScore(p[0], p[1]) + rating.ExpectedScore(p[1], p[0])
				So(sum, ShouldAlmostEqual, 1.0, epsilon)
			}
		})

		Convey("Then equal ratings expect exactly one half", func() {
			for _, r := range []float64{-50, 0, 1000, 2750.5} {
				So(rating.ExpectedScore(r, r), ShouldEqual, 0.5)
			}
		})

		Convey("Then the stronger side is favoured and results stay in (0,1)", func() {
			e := rating.ExpectedScore(1400, 1000)
			So(e, ShouldBeGreaterThan, 0.5)
			So(e, ShouldBeLessThan, 1)
			So(e, ShouldAlmostEqual, 10.0/11.0, epsilon)
		})
	})
}

func TestUpdate(t *testing.T) {
	Convey("Given two items rated 1000", t, func() {
		Convey("When A wins", func() {
			res, err := rating.Update(1000, 1000, model.WinnerA)

			Convey("Then A gains 16 and B loses 16", func() {
				So(err, ShouldBeNil)
				So(res.RatingA, ShouldEqual, 1016)
				So(res.RatingB, ShouldEqual, 984)
				So(res.DeltaA, ShouldEqual, 16)
				So(res.DeltaB, ShouldEqual, -16)
			})
		})

		Convey("When B wins", func() {
			res, err := rating.Update(1000, 1000, model.WinnerB)
			So(err, ShouldBeNil)
			So(res.RatingA, ShouldEqual, 984)
			So(res.RatingB, ShouldEqual, 1016)
		})

		Convey("When the winner is invalid", func() {
			_, err := rating.Update(1000, 1000, model.Winner("draw"))
			So(errors.Is(err, errs.ErrInvalidInput), ShouldBeTrue)
		})
	})

	Convey("Given unequal ratings", t, func() {
		Convey("Then every update is zero-sum", func() {
			for _, w := range []model.Winner{model.WinnerA, model.WinnerB} {
				for _, p := range [][2]float64{{1200, 800}, {950.5, 1049.5}, {-10, 3000}} {
					res, err := rating.Update(p[0], p[1], w)
					So(err, ShouldBeNil)
					So(res.DeltaA, ShouldAlmostEqual, -res.DeltaB, epsilon)
					So(res.RatingA+res.RatingB, ShouldAlmostEqual, p[0]+p[1], epsilon)
				}
			}
		})

		Convey("Then an upset moves ratings more than an expected win", func() {
			upset, _ := rating.Update(800, 1200, model.WinnerA)
			expected, _ := rating.Update(1200, 800, model.WinnerA)
			So(upset.DeltaA, ShouldBeGreaterThan, expected.DeltaA)
			So(upset.DeltaA, ShouldBeLessThan, rating.K)
		})
	})
}

func TestApplyOutcome(t *testing.T) {
	Convey("Given a partition with three items", t, func() {
		p := mapRatings{"X": 1000, "Y": 1000, "Z": 1000}

		Convey("When X beats Y", func() {
			res, err := rating.ApplyOutcome(p, "X", "Y", model.WinnerA)

			Convey("Then only X and Y change", func() {
				So(err, ShouldBeNil)
				So(p["X"], ShouldEqual, 1016)
				So(p["Y"], ShouldEqual, 984)
				So(p["Z"], ShouldEqual, 1000)
				So(res.RatingA, ShouldEqual, p["X"])
			})

			Convey("And Y then beats X", func() {
				beforeX, beforeY := p["X"], p["Y"]
				res2, err := rating.ApplyOutcome(p, "X", "Y", model.WinnerB)

				Convey("Then Y recovers, X drops and the pair sum only moves by the zero-sum delta", func() {
					So(err, ShouldBeNil)
					So(p["Y"], ShouldBeGreaterThan, beforeY)
					So(p["X"], ShouldBeLessThan, beforeX)

					eY := rating.ExpectedScore(beforeY, beforeX)
					So(res2.DeltaB, ShouldAlmostEqual, rating.K*(1-eY), epsilon)
					So((p["X"]+p["Y"])-(beforeX+beforeY), ShouldAlmostEqual, res2.DeltaA+res2.DeltaB, epsilon)
					So(math.Abs(res2.DeltaA+res2.DeltaB), ShouldBeLessThan, epsilon)
				})
			})
		})

		Convey("When the duel repeats an item", func() {
			_, err := rating.ApplyOutcome(p, "X", "X", model.WinnerA)

			Convey("Then it fails as invalid input and nothing changes", func() {
				So(errors.Is(err, errs.ErrInvalidInput), ShouldBeTrue)
				So(p["X"], ShouldEqual, 1000)
			})
		})

		Convey("When an item is not in the partition", func() {
			_, err := rating.ApplyOutcome(p, "X", "W", model.WinnerB)
			So(errors.Is(err, errs.ErrInvalidInput), ShouldBeTrue)
			So(p["X"], ShouldEqual, 1000)
		})

		Convey("When the winner is invalid", func() {
			_, err := rating.ApplyOutcome(p, "X", "Y", model.Winner(""))
			So(errors.Is(err, errs.ErrInvalidInput), ShouldBeTrue)
			So(p["X"], ShouldEqual, 1000)
			So(p["Y"], ShouldEqual, 1000)
		})
	})
}
