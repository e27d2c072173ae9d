package models

import "strings"

// Page は一覧APIのページング結果です。
type Page[T any] struct {
	Data        []T `json:"data"`
	Total       int `json:"total"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	LastPage    int `json:"last_page"`
}

// NewPage は件数からページ情報を組み立てます。items が nil の場合は空配列にします。
func NewPage[T any](items []T, total, page, perPage int) Page[T] {
	if items == nil {
		items = []T{}
	}
	last := 1
	if perPage > 0 && total > 0 {
		last = (total + perPage - 1) / perPage
	}
	return Page[T]{Data: items, Total: total, CurrentPage: page, PerPage: perPage, LastPage: last}
}

// MaxPage はページ番号の上限です。OFFSET の計算が桁あふれしないように丸めます。
const MaxPage = 1_000_000

// ClampPage はページ番号を 1 から MaxPage の範囲に収めます。
func ClampPage(page int) int {
	switch {
	case page < 1:
		return 1
	case page > MaxPage:
		return MaxPage
	}
	return page
}

// Offset はページ番号 (1始まり) からOFFSETを計算します。
func Offset(page, perPage int) int {
	return (ClampPage(page) - 1) * perPage
}

const (
	SortNewest      = "created_at desc"
	SortLowestPrice = "lowest_price asc"
)

// RestaurantSorts は画面に出す並び替えの選択肢です。
var RestaurantSorts = []struct {
	Label string `json:"label"`
	Value string `json:"value"`
}{
	{Label: "Newest", Value: SortNewest},
	{Label: "Lowest price", Value: SortLowestPrice},
}

// RestaurantFilter は店舗検索の条件です。
// keyword > category > price の優先順で、指定された中で最も優先度の高い1つだけが適用されます。
type RestaurantFilter struct {
	Keyword    string `form:"keyword"`
	CategoryID *int   `form:"category_id"`
	MaxPrice   *int   `form:"price"`
	Sort       string `form:"select_sort"`
	Page       int    `form:"page"`
}

// Effective は優先順位を適用した条件を返します。空白のみのキーワードは未指定扱いです。
func (f RestaurantFilter) Effective() RestaurantFilter {
	out := RestaurantFilter{Sort: SortNewest, Page: ClampPage(f.Page)}
	if f.Sort == SortLowestPrice {
		out.Sort = SortLowestPrice
	}

	switch kw := strings.TrimSpace(f.Keyword); {
	case kw != "":
		out.Keyword = kw
	case f.CategoryID != nil:
		id := *f.CategoryID
		out.CategoryID = &id
	case f.MaxPrice != nil:
		p := *f.MaxPrice
		out.MaxPrice = &p
	}
	return out
}
