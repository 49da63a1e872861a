package model

// MaxYear 固定学年-学期映射覆盖的最大学年
const MaxYear = 4

// AvailableSemesters 返回学年对应的两个学期：year → [2y-1, 2y]
// 映射固定不可配置，未识别的学年返回空切片
func AvailableSemesters(year int) []int {
	if year < 1 || year > MaxYear {
		return []int{}
	}
	return []int{2*year - 1, 2 * year}
}

// SemesterBelongsToYear 判断学期是否属于该学年
func SemesterBelongsToYear(year, semester int) bool {
	for _, s := range AvailableSemesters(year) {
		if s == semester {
			return true
		}
	}
	return false
}
