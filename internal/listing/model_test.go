package listing

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestFromRow(t *testing.T) {
	d := Defaults{Name: "Unknown Car", Location: "Unknown location"}

	tests := []struct {
		name string
		row  Row
		want Listing
	}{
		{
			name: "complete row",
			row: Row{
				ID:          "car-1",
				Title:       strPtr("Toyota Corolla"),
				PricePerDay: floatPtr(45),
				Location:    strPtr("Casablanca"),
				Photos:      []any{"https://img.example/1.jpg", "https://img.example/2.jpg"},
				Tags:        []any{"GPS", "A/C"},
				Type:        strPtr("Sedan"),
				HostID:      strPtr("host-1"),
				Rating:      floatPtr(4.5),
			},
			want: Listing{
				ID:       "car-1",
				Name:     "Toyota Corolla",
				Price:    45,
				Image:    "https://img.example/1.jpg",
				Location: "Casablanca",
				Rating:   4.5,
				Tags:     []string{"GPS", "A/C"},
				Category: "Sedan",
				Photos:   []string{"https://img.example/1.jpg", "https://img.example/2.jpg"},
				HostID:   "host-1",
			},
		},
		{
			name: "missing fields get defaults",
			row:  Row{ID: "car-2"},
			want: Listing{
				ID:       "car-2",
				Name:     "Unknown Car",
				Image:    PlaceholderImage,
				Location: "Unknown location",
				Tags:     []string{},
			},
		},
		{
			name: "empty strings get defaults",
			row:  Row{ID: "car-3", Title: strPtr(""), Location: strPtr(""), Photos: "[]"},
			want: Listing{
				ID:       "car-3",
				Name:     "Unknown Car",
				Image:    PlaceholderImage,
				Location: "Unknown location",
				Tags:     []string{},
			},
		},
		{
			name: "malformed tags become empty",
			row:  Row{ID: "car-4", Title: strPtr("Jeep"), Tags: "4x4, offroad"},
			want: Listing{
				ID:       "car-4",
				Name:     "Jeep",
				Image:    PlaceholderImage,
				Location: "Unknown location",
				Tags:     []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromRow(tt.row, d)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FromRow() =\n%+v\nwant\n%+v", got, tt.want)
			}
		})
	}
}

func TestDefaultsFor(t *testing.T) {
	en := DefaultsFor(language.English)
	if en.Location != "Unknown location" || en.Name != "Unknown Car" {
		t.Errorf("english defaults = %+v", en)
	}

	fr := DefaultsFor(language.French)
	if fr.Location != "Emplacement inconnu" {
		t.Errorf("french location = %q", fr.Location)
	}
}

func TestFromRowLogsMalformedTagsWithListingID(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	l := FromRow(Row{ID: "car-7", Tags: "not json"}, Defaults{})

	if l.Tags == nil || len(l.Tags) != 0 {
		t.Errorf("tags = %#v, want empty list", l.Tags)
	}
	out := buf.String()
	if !strings.Contains(out, "discarding malformed tags") || !strings.Contains(out, "listing=car-7") {
		t.Errorf("log = %q, want tag warning with listing id", out)
	}
	if strings.Count(out, "discarding malformed tags") != 1 {
		t.Errorf("log = %q, want exactly one tag warning", out)
	}
}
