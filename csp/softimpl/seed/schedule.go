package seed

import (
	"encoding/binary"
)

// g 是 SEED 的 G 函数：32 位输入的每个字节各自查一张表，四个结果异或。
func g(x uint32) uint32 {
	return ss0[byte(x)] ^ ss1[byte(x>>8)] ^ ss2[byte(x>>16)] ^ ss3[byte(x>>24)]
}

// expandKey128 从 16 字节密钥派生 32 个子密钥。
func expandKey128(key []byte) []uint32 {
	var u [4]uint32
	for i := range u {
		u[i] = binary.BigEndian.Uint32(key[4*i:])
	}

	rk := make([]uint32, 32)
	for i := 0; i < 16; i++ {
		t0 := u[0] + u[2] - kc[i]
		t1 := u[1] + kc[i] - u[3]
		rk[2*i] = g(t0)
		rk[2*i+1] = g(t1)

		if i == 15 {
			break
		}
		// 偶数轮把 (u0,u1) 组成的 64 位整体右移 8 位，奇数轮把 (u2,u3) 左移 8 位。
		if i%2 == 0 {
			t := u[0]
			u[0] = u[0]>>8 ^ u[1]<<24
			u[1] = u[1]>>8 ^ t<<24
		} else {
			t := u[2]
			u[2] = u[2]<<8 ^ u[3]>>24
			u[3] = u[3]<<8 ^ t>>24
		}
	}
	return rk
}

// rotations256 是 SEED-256 密钥扩展各轮的移位量，每 6 轮重复一次。
var rotations256 = [6]uint{9, 9, 11, 11, 12, 12}

// expandKey256 从 32 字节密钥派生 48 个子密钥。
func expandKey256(key []byte) []uint32 {
	var u [8]uint32
	for i := range u {
		u[i] = binary.BigEndian.Uint32(key[4*i:])
	}

	rk := make([]uint32, 48)
	for i := 0; i < 24; i++ {
		if i > 0 {
			r := rotations256[(i-1)%6]
			if i%2 == 1 {
				// (u0,u1,u2,u3) 组成的 128 位整体循环右移 r 位。
				t := u[3]
				u[3] = u[3]>>r ^ u[2]<<(32-r)
				u[2] = u[2]>>r ^ u[1]<<(32-r)
				u[1] = u[1]>>r ^ u[0]<<(32-r)
				u[0] = u[0]>>r ^ t<<(32-r)
			} else {
				// (u4,u5,u6,u7) 组成的 128 位整体循环左移 r 位。
				t := u[4]
				u[4] = u[4]<<r ^ u[5]>>(32-r)
				u[5] = u[5]<<r ^ u[6]>>(32-r)
				u[6] = u[6]<<r ^ u[7]>>(32-r)
				u[7] = u[7]<<r ^ t>>(32-r)
			}
		}

		t0 := ((u[0]+u[2])^u[4] - u[5]) ^ kc[i]
		t1 := ((u[1]-u[3])^u[6] + u[7]) ^ kc[i]
		rk[2*i] = g(t0)
		rk[2*i+1] = g(t1)
	}
	return rk
}
