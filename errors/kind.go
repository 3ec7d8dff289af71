package errors

import stderrors "errors"

// Kind 对错误进行分类。
type Kind uint8

const (
	KindUnknown Kind = iota
	KindKeyLength
	KindIVLength
	KindCounterLength
	KindCipherLength
	KindPadding
	KindEmptyPadding
	KindUnsupportedMode
	KindUnsupportedKeySize
	KindUnsupportedPadding
	KindUnsupportedEncodingTable
	KindInvalidDecodingCharacter
	KindSessionState
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindKeyLength:
		return "key length error"
	case KindIVLength:
		return "initial vector length error"
	case KindCounterLength:
		return "counter length error"
	case KindCipherLength:
		return "cipher length error"
	case KindPadding:
		return "padding error"
	case KindEmptyPadding:
		return "padding is not"
	case KindUnsupportedMode:
		return "cannot support mode"
	case KindUnsupportedKeySize:
		return "cannot support bit"
	case KindUnsupportedPadding:
		return "cannot support padding"
	case KindUnsupportedEncodingTable:
		return "cannot support encoding table"
	case KindInvalidDecodingCharacter:
		return "invalid decoding character"
	case KindSessionState:
		return "session state error"
	case KindConfig:
		return "config error"
	default:
		return "unknown error"
	}
}

// 与 errors.Is 搭配使用的哨兵错误，只有 kind 参与比较。
var (
	ErrKeyLength                = &Error{kind: KindKeyLength, content: KindKeyLength.String()}
	ErrIVLength                 = &Error{kind: KindIVLength, content: KindIVLength.String()}
	ErrCounterLength            = &Error{kind: KindCounterLength, content: KindCounterLength.String()}
	ErrCipherLength             = &Error{kind: KindCipherLength, content: KindCipherLength.String()}
	ErrPadding                  = &Error{kind: KindPadding, content: KindPadding.String()}
	ErrEmptyPadding             = &Error{kind: KindEmptyPadding, content: KindEmptyPadding.String()}
	ErrUnsupportedMode          = &Error{kind: KindUnsupportedMode, content: KindUnsupportedMode.String()}
	ErrUnsupportedKeySize       = &Error{kind: KindUnsupportedKeySize, content: KindUnsupportedKeySize.String()}
	ErrUnsupportedPadding       = &Error{kind: KindUnsupportedPadding, content: KindUnsupportedPadding.String()}
	ErrUnsupportedEncodingTable = &Error{kind: KindUnsupportedEncodingTable, content: KindUnsupportedEncodingTable.String()}
	ErrInvalidDecodingCharacter = &Error{kind: KindInvalidDecodingCharacter, content: KindInvalidDecodingCharacter.String()}
	ErrSessionState             = &Error{kind: KindSessionState, content: KindSessionState.String()}
	ErrConfig                   = &Error{kind: KindConfig, content: KindConfig.String()}
)

// KindOf 返回错误链上第一个 *Error 的种类，err 为 nil 或者不是本包构造的错误时返回 KindUnknown。
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}
