// Package session 实现增量式的加解密：数据可以分任意多次送入，结果与一次性处理完全相同。
package session

import (
	"crypto/cipher"

	"github.com/zhangsob/zeed/common/utils"
	"github.com/zhangsob/zeed/csp/softimpl/padding"
	"github.com/zhangsob/zeed/errors"
)

// Direction 处理方向。
type Direction int

const (
	Encrypt Direction = iota
	Decrypt
)

func (d Direction) String() string {
	if d == Encrypt {
		return "encrypt"
	}
	return "decrypt"
}

// State 会话所处的阶段。
type State int

const (
	// Initialized 刚创建或者刚 Reset，还没有送入数据。
	Initialized State = iota
	// Accumulating 已经调用过 Process 或 Append。
	Accumulating
	// Finalized 已经调用过 Finish，之后只能 Reset。
	Finalized
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Accumulating:
		return "accumulating"
	case Finalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Session 一次加密或解密的完整过程。Session 不是并发安全的。
//
// 加密时 residue 保存不足一个分组的尾部；解密时 residue 始终至少留下最后一个完整分组，
// 因为只有到 Finish 才知道它是不是填充分组，所以 residue 最多 2*BlockSize-1 个字节。
type Session struct {
	direction  Direction
	bm         cipher.BlockMode
	scheme     padding.Scheme
	allowEmpty bool
	bs         int

	state   State
	residue []byte
	pending []byte
}

// New 创建一个处于 Initialized 阶段的会话，bm 的方向必须与 direction 一致。
// allowEmpty 为 true 时，解密遇到空填充或越界的填充长度不报错，也不去掉任何字节。
func New(direction Direction, bm cipher.BlockMode, scheme padding.Scheme, allowEmpty bool) (*Session, error) {
	if bm == nil {
		return nil, errors.New(errors.KindSessionState, "nil block mode")
	}
	if !scheme.Valid() {
		return nil, errors.Newf(errors.KindUnsupportedPadding, "the supported paddings contain [BIT, X923, PKCS7], but got \"%d\"", int(scheme))
	}

	bs := bm.BlockSize()
	return &Session{
		direction:  direction,
		bm:         bm,
		scheme:     scheme,
		allowEmpty: allowEmpty,
		bs:         bs,
		residue:    make([]byte, 0, 2*bs-1),
	}, nil
}

func (s *Session) Direction() Direction {
	return s.direction
}

func (s *Session) State() State {
	return s.state
}

// Process 送入 p，返回此刻可以输出的结果，之前 Append 积攒的结果排在前面。
func (s *Session) Process(p []byte) ([]byte, error) {
	out, err := s.update(p)
	if err != nil {
		return nil, err
	}
	if len(s.pending) == 0 {
		return out, nil
	}
	return utils.ConcatenateBytes(s.takePending(), out), nil
}

// Append 送入 p，结果先积攒起来，由之后的 Process 或 Finish 一并返回。
func (s *Session) Append(p []byte) error {
	out, err := s.update(p)
	if err != nil {
		return err
	}
	s.pending = append(s.pending, out...)
	return nil
}

// Finish 结束会话，返回积攒的结果加上最后一部分输出。
// 加密时即使没有剩余数据也会输出一个完整的填充分组；解密时剩余数据必须恰好是一个分组。
func (s *Session) Finish() ([]byte, error) {
	if s.state == Finalized {
		return nil, errors.New(errors.KindSessionState, "session already finished")
	}
	s.state = Finalized

	var last []byte
	if s.direction == Encrypt {
		padded, err := padding.Pad(s.residue, s.scheme, s.bs)
		if err != nil {
			return nil, err
		}
		s.bm.CryptBlocks(padded, padded)
		last = padded
	} else {
		if len(s.residue) != s.bs {
			s.residue = s.residue[:0]
			return nil, errors.Newf(errors.KindCipherLength, "cipher length %% %d != 0", s.bs)
		}
		block := make([]byte, s.bs)
		s.bm.CryptBlocks(block, s.residue)
		n, err := padding.Count(block, s.scheme, s.allowEmpty)
		if err != nil {
			s.residue = s.residue[:0]
			return nil, err
		}
		last = block[:s.bs-n]
	}
	s.residue = s.residue[:0]

	if len(s.pending) == 0 {
		return last, nil
	}
	return utils.ConcatenateBytes(s.takePending(), last), nil
}

// Reset 丢弃所有缓存，换上新的 bm（携带新的链接状态），会话回到 Initialized。
func (s *Session) Reset(bm cipher.BlockMode) error {
	if bm == nil {
		return errors.New(errors.KindSessionState, "nil block mode")
	}
	s.bm = bm
	s.bs = bm.BlockSize()
	s.residue = make([]byte, 0, 2*s.bs-1)
	s.pending = nil
	s.state = Initialized
	return nil
}

func (s *Session) takePending() []byte {
	p := s.pending
	s.pending = nil
	return p
}

func (s *Session) update(p []byte) ([]byte, error) {
	if s.state == Finalized {
		return nil, errors.New(errors.KindSessionState, "session already finished")
	}
	s.state = Accumulating

	total := len(s.residue) + len(p)
	var n int
	if s.direction == Encrypt {
		n = total / s.bs * s.bs
	} else {
		// 保留最后一个完整分组。
		keep := total - s.bs
		if keep < 0 {
			keep = 0
		}
		n = keep / s.bs * s.bs
	}

	if n == 0 {
		s.residue = append(s.residue, p...)
		return nil, nil
	}

	out := make([]byte, n)
	k := copy(out, s.residue)
	if k < n {
		copy(out[k:], p[:n-k])
		s.residue = append(s.residue[:0], p[n-k:]...)
	} else {
		// 只有解密时才会出现 residue 自身就够输出的情况。
		rest := append([]byte(nil), s.residue[n:]...)
		s.residue = append(append(s.residue[:0], rest...), p...)
	}

	s.bm.CryptBlocks(out, out)
	return out, nil
}
