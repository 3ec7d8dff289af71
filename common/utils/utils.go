package utils

// ConcatenateBytes 将给定的若干个字节数组拼接到一起，总是返回一个新的切片。
func ConcatenateBytes(data ...[]byte) []byte {
	finalLength := 0
	for _, slice := range data {
		finalLength += len(slice)
	}
	result := make([]byte, finalLength)
	last := 0
	for _, slice := range data {
		last += copy(result[last:], slice)
	}
	return result
}

// Wipe 把 b 全部置 0，用于丢弃不再需要的密钥材料。
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
