package festival

var solarEntries = []entry{
	{1, 1, "Tết Dương lịch"},
	{14, 2, "Lễ tình nhân"},
	{8, 3, "Quốc tế Phụ nữ"},
	{30, 4, "Giải phóng miền Nam"},
	{1, 5, "Quốc tế Lao động"},
	{19, 5, "Sinh nhật Bác Hồ"},
	{1, 6, "Quốc tế Thiếu nhi"},
	{2, 9, "Quốc khánh"},
	{20, 10, "Ngày Phụ nữ Việt Nam"},
	{20, 11, "Ngày Nhà giáo Việt Nam"},
	{25, 12, "Lễ Giáng sinh"},
}

var lunarEntries = []entry{
	{1, 1, "Tết Nguyên đán"},
	{2, 1, "Mùng 2 Tết"},
	{3, 1, "Mùng 3 Tết"},
	{15, 1, "Tết Nguyên tiêu"},
	{3, 3, "Tết Hàn thực"},
	{10, 3, "Giỗ Tổ Hùng Vương"},
	{15, 4, "Phật đản"},
	{5, 5, "Tết Đoan ngọ"},
	{15, 7, "Vu lan"},
	{15, 8, "Tết Trung thu"},
	{23, 12, "Ông Táo chầu trời"},
}

// Both tables are filled once at package init and only read afterwards.
var (
	solarHolidays = buildTable(TypeSolar, solarEntries)
	lunarHolidays = buildTable(TypeLunar, lunarEntries)
)

type entry struct {
	day   int
	month int
	name  string
}

func buildTable(t Type, entries []entry) map[string][]Festival {
	table := make(map[string][]Festival, len(entries))
	for _, e := range entries {
		k := Key(e.day, e.month)
		table[k] = append(table[k], Festival{Name: e.name, Type: t, IsFixed: true})
	}
	return table
}

// Dated pairs a festival with the day and month it is fixed to.
type Dated struct {
	Day      int      `json:"day"`
	Month    int      `json:"month"`
	Festival Festival `json:"festival"`
}

// Catalog lists every festival of one calendar in table order.
func Catalog(t Type) []Dated {
	var src []entry
	switch t {
	case TypeSolar:
		src = solarEntries
	case TypeLunar:
		src = lunarEntries
	default:
		return nil
	}

	out := make([]Dated, 0, len(src))
	for _, e := range src {
		out = append(out, Dated{
			Day:      e.day,
			Month:    e.month,
			Festival: Festival{Name: e.name, Type: t, IsFixed: true},
		})
	}
	return out
}
