package utils

// StringHash is a rolling hash (hash*127 + byte) used for fast name equality checks.
func StringHash(str string, initial uint32) uint32 {
	hash := initial
	for i := 0; i < len(str); i++ {
		hash = (hash << 7) - hash + uint32(str[i])
	}

	return hash
}
