// Package symmetric 把 SEED 分组密码、工作模式、填充、增量处理和文本编码组合成可配置的加解密实例，
// 并以 csp 组件（密钥导入、派生、加解密）的形式提供给 softimpl。
package symmetric

import (
	"crypto/cipher"
	"io"

	"github.com/zhangsob/zeed/common/mlog"
	commonutils "github.com/zhangsob/zeed/common/utils"
	"github.com/zhangsob/zeed/csp/softimpl/encoding"
	"github.com/zhangsob/zeed/csp/softimpl/mode"
	"github.com/zhangsob/zeed/csp/softimpl/padding"
	"github.com/zhangsob/zeed/csp/softimpl/seed"
	"github.com/zhangsob/zeed/csp/softimpl/session"
	"github.com/zhangsob/zeed/csp/softimpl/utils"
	"github.com/zhangsob/zeed/errors"
)

var logger = mlog.GetLogger("symmetric", mlog.InfoLevel)

// readChunk EncryptReader 与 DecryptReader 每次读取的字节数。
const readChunk = 4096

// Engine 一个 SEED 加解密实例：模式、密钥位数、填充方式在创建时确定，
// 密钥、初始向量、计数器与开关在 Init 之前设置。Engine 不是并发安全的。
type Engine struct {
	mode    mode.Mode
	keySize seed.KeySize
	scheme  padding.Scheme
	options Option

	iv      []byte
	counter []byte
	block   cipher.Block
	logger  mlog.Logger
}

// NewEngine 校验三个参数都在支持的范围内。
func NewEngine(m mode.Mode, ks seed.KeySize, scheme padding.Scheme) (*Engine, error) {
	if !m.Valid() {
		return nil, errors.Newf(errors.KindUnsupportedMode, "the supported modes contain [ECB, CBC, CTR], but got \"%d\"", int(m))
	}
	if !ks.Valid() {
		return nil, errors.Newf(errors.KindUnsupportedKeySize, "the supported key sizes contain [128, 256], but got \"%d\"", int(ks))
	}
	if !scheme.Valid() {
		return nil, errors.Newf(errors.KindUnsupportedPadding, "the supported paddings contain [BIT, X923, PKCS7], but got \"%d\"", int(scheme))
	}

	return &Engine{
		mode:    m,
		keySize: ks,
		scheme:  scheme,
		logger:  logger.With("engine", m.String()+"/"+ks.String()+"/"+scheme.String()),
	}, nil
}

func (e *Engine) Mode() mode.Mode {
	return e.mode
}

func (e *Engine) KeySize() seed.KeySize {
	return e.keySize
}

func (e *Engine) Padding() padding.Scheme {
	return e.scheme
}

// SetLogger 替换 Engine 使用的 logger。
func (e *Engine) SetLogger(l mlog.Logger) {
	if l != nil {
		e.logger = l
	}
}

// SetOption None 清除所有开关，其它值叠加到已有的开关上。
func (e *Engine) SetOption(o Option) {
	if o == None {
		e.options = None
		return
	}
	e.options |= o
}

// Is 判断开关 o 是否打开。
func (e *Engine) Is(o Option) bool {
	return o != None && e.options&o == o
}

func (e *Engine) Options() Option {
	return e.options
}

// SetInitialVector 设置 CBC 模式的初始向量，长度必须是 16。
func (e *Engine) SetInitialVector(iv []byte) error {
	if len(iv) != seed.BlockSize {
		return errors.Newf(errors.KindIVLength, "InitialVector length != %d", seed.BlockSize)
	}
	e.iv = append([]byte(nil), iv...)
	return nil
}

// SetCounter 设置 CTR 模式的初始计数器，长度必须是 16。
func (e *Engine) SetCounter(counter []byte) error {
	if len(counter) != seed.BlockSize {
		return errors.Newf(errors.KindCounterLength, "Counter length != %d", seed.BlockSize)
	}
	e.counter = append([]byte(nil), counter...)
	return nil
}

// SetKey 安装原始密钥，长度必须与 Engine 的密钥位数一致。
func (e *Engine) SetKey(key []byte) error {
	block, err := seed.NewCipherWithKeySize(key, e.keySize)
	if err != nil {
		return err
	}
	e.block = block
	return nil
}

// SetKeyString 安装字符串密钥：只允许可见 ASCII 字符，长度 1~16（SEED256 为 1~32），右侧补 0x00。
func (e *Engine) SetKeyString(key string) error {
	raw, err := utils.NormalizeASCIIKey(key, e.keySize.Bytes())
	if err != nil {
		return err
	}
	defer commonutils.Wipe(raw)
	return e.SetKey(raw)
}

// Init 开始一次加密或解密，每次 Init 都从设置好的初始向量或计数器重新开始。
func (e *Engine) Init(d session.Direction) (*session.Session, error) {
	bm, err := e.blockMode(d)
	if err != nil {
		return nil, err
	}
	e.logger.Debugf("initializing %s session", d.String())
	return session.New(d, bm, e.scheme, e.Is(DecryptEmptyPaddingOK))
}

func (e *Engine) blockMode(d session.Direction) (cipher.BlockMode, error) {
	if e.block == nil {
		return nil, errors.New(errors.KindKeyLength, "userKey length is zero")
	}

	var chaining []byte
	switch e.mode {
	case mode.CBC:
		chaining = e.iv
	case mode.CTR:
		chaining = e.counter
	}

	if d == session.Encrypt {
		return mode.NewEncrypter(e.mode, e.block, chaining)
	}
	return mode.NewDecrypter(e.mode, e.block, chaining)
}

/* ------------------------------------------------------------------------------------------ */

// Encrypt 一次性加密，空输入得到空输出。
func (e *Engine) Encrypt(plain []byte) ([]byte, error) {
	if e.block == nil {
		return nil, errors.New(errors.KindKeyLength, "userKey length is zero")
	}
	if len(plain) == 0 {
		return []byte{}, nil
	}

	s, err := e.Init(session.Encrypt)
	if err != nil {
		return nil, err
	}
	if err = s.Append(plain); err != nil {
		return nil, err
	}
	return s.Finish()
}

// Decrypt 一次性解密，空输入得到空输出，长度不是 16 的倍数时返回 CipherLengthError。
func (e *Engine) Decrypt(ciphertext []byte) ([]byte, error) {
	if e.block == nil {
		return nil, errors.New(errors.KindKeyLength, "userKey length is zero")
	}
	if len(ciphertext) == 0 {
		return []byte{}, nil
	}
	if len(ciphertext)%seed.BlockSize != 0 {
		return nil, errors.Newf(errors.KindCipherLength, "cipher length %% %d != 0", seed.BlockSize)
	}

	s, err := e.Init(session.Decrypt)
	if err != nil {
		return nil, err
	}
	if err = s.Append(ciphertext); err != nil {
		return nil, err
	}
	plain, err := s.Finish()
	if err != nil {
		e.logger.Debugf("failed decrypting %d bytes: %s", len(ciphertext), errors.KindOf(err).String())
		return nil, err
	}
	return plain, nil
}

/* ------------------------------------------------------------------------------------------ */

// EncryptReader 从 r 读取明文直到 EOF，把密文写入 w。r 没有任何数据时什么都不写。
func (e *Engine) EncryptReader(r io.Reader, w io.Writer) error {
	return e.stream(session.Encrypt, r, w)
}

// DecryptReader 从 r 读取密文直到 EOF，把明文写入 w。r 没有任何数据时什么都不写。
func (e *Engine) DecryptReader(r io.Reader, w io.Writer) error {
	return e.stream(session.Decrypt, r, w)
}

func (e *Engine) stream(d session.Direction, r io.Reader, w io.Writer) error {
	if e.block == nil {
		return errors.New(errors.KindKeyLength, "userKey length is zero")
	}

	s, err := e.Init(d)
	if err != nil {
		return err
	}

	buf := make([]byte, readChunk)
	total := 0
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			total += n
			out, err := s.Process(buf[:n])
			if err != nil {
				return err
			}
			if _, err = w.Write(out); err != nil {
				return errors.Wrapf(err, "failed writing %s output", d.String())
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return errors.Wrapf(rerr, "failed reading %s input", d.String())
		}
	}

	if total == 0 {
		return nil
	}

	last, err := s.Finish()
	if err != nil {
		return err
	}
	if _, err = w.Write(last); err != nil {
		return errors.Wrapf(err, "failed writing %s output", d.String())
	}
	e.logger.Debugf("%s stream finished, %d bytes consumed", d.String(), total)
	return nil
}

/* ------------------------------------------------------------------------------------------ */

// EncryptString 加密 UTF-8 文本，密文用编码表 t 转换成文本。
func (e *Engine) EncryptString(text string, t *encoding.Table) (string, error) {
	if t == nil {
		return "", errors.New(errors.KindUnsupportedEncodingTable, "nil encoding table")
	}
	ciphertext, err := e.Encrypt([]byte(text))
	if err != nil {
		return "", err
	}
	return encoding.Encode(ciphertext, t)
}

// DecryptString 按编码表 t 还原密文后解密，结果按 UTF-8 解释。
// 打开 DecodeIgnoreWhitespace 时密文中的空白字符被忽略。
func (e *Engine) DecryptString(text string, t *encoding.Table) (string, error) {
	if t == nil {
		return "", errors.New(errors.KindUnsupportedEncodingTable, "nil encoding table")
	}

	var ciphertext []byte
	var err error
	if e.Is(DecodeIgnoreWhitespace) {
		ciphertext, err = encoding.Decode(text, t)
	} else {
		ciphertext, err = encoding.DecodeStrict(text, t)
	}
	if err != nil {
		return "", err
	}

	plain, err := e.Decrypt(ciphertext)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
