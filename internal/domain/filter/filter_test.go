package filter_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/lumina/internal/domain/catalog"
	"github.com/okian/lumina/internal/domain/filter"
	. "github.com/smartystreets/goconvey/convey"
)

func titles(books []catalog.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func fixture() ([]catalog.Book, []catalog.Category) {
	books := []catalog.Book{
		{ID: "1", Title: "Dune", Category: "Sci-Fi"},
		{ID: "2", Title: "Hobbit", Category: "Fantasy"},
		{ID: "3", Title: "Neuromancer", Category: "Cyberpunk"},
		{ID: "4", Title: "Foundation", Category: "Sci-Fi"},
		{ID: "5", Title: "Sapiens", Category: "History"},
		{ID: "6", Title: "Literary Essays", Category: "Fiction"},
	}
	categories := []catalog.Category{
		{ID: "fiction", Name: "Fiction", Subcategories: []catalog.Category{
			{ID: "scifi", Name: "Sci-Fi", Subcategories: []catalog.Category{
				{ID: "cyber", Name: "Cyberpunk"},
			}},
			{ID: "fantasy", Name: "Fantasy"},
		}},
		{ID: "history", Name: "History"},
	}
	return books, categories
}

func TestFilter(t *testing.T) {
	Convey("Given a catalog with a three-level tree", t, func() {
		books, categories := fixture()

		Convey("When nothing is selected", func() {
			got := filter.Filter(filter.None, books, categories)

			Convey("Then the full catalog is returned in order", func() {
				So(cmp.Diff(books, got), ShouldBeEmpty)
			})

			Convey("And the result does not alias the input", func() {
				got[0].Title = "changed"
				So(books[0].Title, ShouldEqual, "Dune")
			})
		})

		Convey("When a top-level category is selected", func() {
			got := filter.Filter("Fiction", books, categories)

			Convey("Then own and direct-subcategory books are included in catalog order", func() {
				So(titles(got), ShouldResemble, []string{"Dune", "Hobbit", "Foundation", "Literary Essays"})
			})

			Convey("And grandchildren are not consulted", func() {
				So(titles(got), ShouldNotContain, "Neuromancer")
			})
		})

		Convey("When a subcategory is selected", func() {
			So(titles(filter.Filter("Fantasy", books, categories)), ShouldResemble, []string{"Hobbit"})
			So(titles(filter.Filter("Sci-Fi", books, categories)), ShouldResemble, []string{"Dune", "Foundation"})
		})

		Convey("When a third-level name is selected it matches only its literal books", func() {
			So(titles(filter.Filter("Cyberpunk", books, categories)), ShouldResemble, []string{"Neuromancer"})
		})

		Convey("When an unknown name is selected", func() {
			got := filter.Filter("Poetry", books, categories)
			So(got, ShouldNotBeNil)
			So(got, ShouldBeEmpty)
		})

		Convey("When the example catalog selects Fantasy", func() {
			example := []catalog.Book{
				{Title: "Dune", Author: "Herbert", Category: "Sci-Fi"},
				{Title: "Hobbit", Author: "Tolkien", Category: "Fantasy"},
			}
			So(titles(filter.Filter("Fantasy", example, nil)), ShouldResemble, []string{"Hobbit"})
		})

		Convey("When two top-level categories share a name only the first contributes subcategories", func() {
			dup := append(categories, catalog.Category{ID: "history-2", Name: "History", Subcategories: []catalog.Category{
				{ID: "fantasy-2", Name: "Fantasy"},
			}})
			So(titles(filter.Filter("History", books, dup)), ShouldResemble, []string{"Sapiens"})
		})
	})
}

func TestTitle(t *testing.T) {
	Convey("Title follows the selection", t, func() {
		So(filter.Title(filter.None), ShouldEqual, filter.DefaultTitle)
		So(filter.Title("Fantasy"), ShouldEqual, "Fantasy Books")
	})
}
