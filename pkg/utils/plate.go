package utils

// MaskPlate hides a license plate down to its last three characters,
// e.g. "123 TU 4567" -> "*** 567". Plates too short to mask meaningfully
// collapse to "***".
func MaskPlate(plate string) string {
	runes := []rune(plate)
	if len(runes) < 4 {
		return "***"
	}
	return "*** " + string(runes[len(runes)-3:])
}
