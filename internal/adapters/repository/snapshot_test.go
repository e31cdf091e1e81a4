package repository_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	repository "github.com/okian/gamemash/internal/adapters/repository"
	"github.com/okian/gamemash/internal/domain/model"
	"github.com/okian/gamemash/internal/domain/rating"
	"github.com/okian/gamemash/internal/errs"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{repository.CodecJSON, repository.CodecCBOR} {
		Convey("Given a store with votes and the "+name+" codec", t, func() {
			codec, err := repository.NewCodec(name)
			So(err, ShouldBeNil)
			So(codec.Name(), ShouldEqual, name)

			cat := smallCatalog()
			store := repository.NewStore(ctx, cat, 1000)
			p, _ := store.Get(model.NewKey("H", "M"))
			_, _ = rating.ApplyOutcome(p, "Z", "X", model.WinnerA)
			_, _ = rating.ApplyOutcome(p, "Y", "Z", model.WinnerA)
			_, _ = rating.ApplyOutcome(p, "X", "Y", model.WinnerB)

			Convey("When serialising and deserialising", func() {
				blob, err := repository.Serialize(store, codec)
				So(err, ShouldBeNil)

				back, err := repository.Deserialize(ctx, blob, cat, codec)

				Convey("Then every partition and rating is identical", func() {
					So(err, ShouldBeNil)
					So(back.Keys(), ShouldResemble, store.Keys())
					So(back.InitialRating(), ShouldEqual, 1000)
					for _, k := range store.Keys() {
						want, _ := store.Get(k)
						got, _ := back.Get(k)
						So(got.Snapshot(), ShouldResemble, want.Snapshot())
					}
				})
			})
		})
	}
}

func TestSnapshot_Malformed(t *testing.T) {
	Convey("Given a JSON codec and a small catalog", t, func() {
		ctx := context.Background()
		cat := smallCatalog()
		codec := repository.JSONCodec{}

		cases := []struct {
			name string
			blob string
		}{
			{"empty", ``},
			{"not JSON", `{{{`},
			{"carrying an unknown field", `{"version":1,"ratings":{}}`},
			{"from a future version", `{"version":99,"partitions":{}}`},
			{"without partitions", `{"version":1}`},
			{"followed by trailing data", `{"version":1} {}`},
			{"missing partitions", `{"version":1,"partitions":{"C__D":{"X":1,"Y":1,"Z":1}}}`},
		}

		for _, tc := range cases {
			Convey("When the blob is "+tc.name, func() {
				_, err := repository.Deserialize(ctx, []byte(tc.blob), cat, codec)

				Convey("Then it fails with a serialization error", func() {
					So(errors.Is(err, errs.ErrSerialization), ShouldBeTrue)
				})
			})
		}

		Convey("When a partition carries an unknown item", func() {
			store := repository.NewStore(ctx, cat, 1000)
			blob, _ := repository.Serialize(store, codec)
			// Swap one item name for one the catalog does not know.
			tampered := []byte(strings.Replace(string(blob), `"X":1000`, `"W":1000`, 1))

			_, err := repository.Deserialize(ctx, tampered, cat, codec)
			So(errors.Is(err, errs.ErrSerialization), ShouldBeTrue)
		})

		Convey("When a partition key is not in the catalog", func() {
			store := repository.NewStore(ctx, cat, 1000)
			blob, _ := repository.Serialize(store, codec)

			unknown := []byte(strings.Replace(string(blob), `"C__D"`, `"Q__D"`, 1))
			_, err := repository.Deserialize(ctx, unknown, cat, codec)
			So(errors.Is(err, errs.ErrSerialization), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "unknown partition Q__D")

			malformed := []byte(strings.Replace(string(blob), `"C__D"`, `"CD"`, 1))
			_, err = repository.Deserialize(ctx, malformed, cat, codec)
			So(errors.Is(err, errs.ErrSerialization), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "malformed partition key")
		})

		Convey("When the blob is nil", func() {
			_, err := repository.Deserialize(ctx, nil, cat, codec)
			So(errors.Is(err, errs.ErrSerialization), ShouldBeTrue)
		})
	})
}

func TestSnapshot_BrowserBuckets(t *testing.T) {
	Convey("Given a blob in the browser layout", t, func() {
		ctx := context.Background()
		cat := smallCatalog()
		blob := `{"buckets":{
			"C__D":{"X":1016,"Y":984,"Z":1000},"C__S":{"X":1000,"Y":1000,"Z":1000},"C__M":{"X":1000,"Y":1000,"Z":1000},
			"H__D":{"X":1000,"Y":1000,"Z":1000},"H__S":{"X":1000,"Y":1000,"Z":1000},"H__M":{"X":1000,"Y":1000,"Z":1000}}}`

		store, err := repository.Deserialize(ctx, []byte(blob), cat, repository.JSONCodec{})

		Convey("Then it is imported", func() {
			So(err, ShouldBeNil)
			p, _ := store.Get(model.NewKey("C", "D"))
			r, _ := p.Rating("X")
			So(r, ShouldEqual, 1016)
		})
	})
}

func TestNewCodec(t *testing.T) {
	Convey("Given codec names", t, func() {
		c, err := repository.NewCodec("")
		So(err, ShouldBeNil)
		So(c.Name(), ShouldEqual, repository.CodecJSON)

		_, err = repository.NewCodec("xml")
		So(errors.Is(err, errs.ErrInvalidInput), ShouldBeTrue)
	})
}
