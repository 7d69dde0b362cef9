package lunar

import (
	"strconv"
)

const leapSuffix = " (nhuận)"

// monthNamesVN holds the Vietnamese lunar month names, indexed 1-12.
var monthNamesVN = [...]string{
	"", "Giêng", "Hai", "Ba", "Tư", "Năm", "Sáu",
	"Bảy", "Tám", "Chín", "Mười", "Một", "Chạp",
}

// dayNamesVN maps traditional day labels to their Vietnamese reading.
var dayNamesVN = map[string]string{
	"初一": "Mồng 1", "初二": "Mồng 2", "初三": "Mồng 3", "初四": "Mồng 4", "初五": "Mồng 5",
	"初六": "Mồng 6", "初七": "Mồng 7", "初八": "Mồng 8", "初九": "Mồng 9", "初十": "Mồng 10",
	"十一": "11", "十二": "12", "十三": "13", "十四": "14", "十五": "15",
	"十六": "16", "十七": "17", "十八": "18", "十九": "19", "二十": "20",
	"廿一": "21", "廿二": "22", "廿三": "23", "廿四": "24", "廿五": "25",
	"廿六": "26", "廿七": "27", "廿八": "28", "廿九": "29", "三十": "30",
}

// FormatLunarDate renders "day/month", with " (nhuận)" for leap months.
func FormatLunarDate(d LunarDate) string {
	s := strconv.Itoa(d.Day) + "/" + strconv.Itoa(d.Month)
	if d.IsLeapMonth {
		s += leapSuffix
	}
	return s
}

// FormatLunarDateVN renders the date the way it is read aloud, e.g. "Mồng 1 Giêng".
func FormatLunarDateVN(d LunarDate) string {
	day := strconv.Itoa(d.Day)
	if name, ok := dayNamesVN[d.DayName]; ok {
		day = name
	}

	s := day + " " + MonthNameVN(d.Month)
	if d.IsLeapMonth {
		s += leapSuffix
	}
	return s
}

// MonthNameVN returns the Vietnamese name of a lunar month, or the numeral
// when month is outside 1-12.
func MonthNameVN(month int) string {
	if month >= 1 && month < len(monthNamesVN) {
		return monthNamesVN[month]
	}
	return strconv.Itoa(month)
}
