package errors

import (
	"fmt"
	"runtime"
	"strings"
)

const PrefixPath = "github.com/zhangsob/"

var trace = false

// Error 是本项目内所有错误的载体，kind 标识错误的种类，调用方依据 kind 区分 "密钥错误"、"密文损坏" 与 "用法错误"。
type Error struct {
	kind    Kind
	content string
	path    string
	cause   error
}

func (et *Error) Error() string {
	content := et.content
	if et.cause != nil {
		content = content + ": " + et.cause.Error()
	}
	if trace {
		return fmt.Sprintf("[%s] => {%s}", et.path, content)
	}
	return content
}

// Kind 返回错误的种类。
func (et *Error) Kind() Kind {
	return et.kind
}

// Is 只比较错误的种类，所以 errors.Is(err, ErrPadding) 对任何填充错误都成立。
func (et *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.kind != KindUnknown && t.kind == et.kind
}

func (et *Error) Unwrap() error {
	return et.cause
}

func NewError(content string) *Error {
	return newError(KindUnknown, content, nil)
}

func NewErrorf(format string, args ...interface{}) *Error {
	return newError(KindUnknown, fmt.Sprintf(format, args...), nil)
}

// New 构造一个指定种类的错误。
func New(kind Kind, content string) *Error {
	return newError(kind, content, nil)
}

// Newf 构造一个指定种类的错误，错误内容按照 format 格式化。
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return newError(kind, fmt.Sprintf(format, args...), nil)
}

// Wrap 在 cause 的基础上构造一个新的错误，新错误沿用 cause 的种类。
func Wrap(cause error, content string) *Error {
	return newError(KindOf(cause), content, cause)
}

// Wrapf 同 Wrap，错误内容按照 format 格式化。
func Wrapf(cause error, format string, args ...interface{}) *Error {
	return newError(KindOf(cause), fmt.Sprintf(format, args...), cause)
}

func SetTrace() {
	trace = true
}

func newError(kind Kind, content string, cause error) *Error {
	var path string
	if trace {
		path = constructPath()
	}

	return &Error{
		kind:    kind,
		content: content,
		path:    path,
		cause:   cause,
	}
}

func constructPath() string {
	pc, file, line, ok := runtime.Caller(3)
	if !ok {
		return "unknown path"
	}

	index := strings.Index(file, PrefixPath)
	if index == -1 {
		file = "unknown file"
	} else {
		file = file[index+len(PrefixPath):]
	}

	funcName := runtime.FuncForPC(pc).Name()
	index = strings.LastIndex(funcName, ".")
	if index == -1 {
		funcName = "unknown function"
	} else {
		funcName = funcName[index+1:]
	}

	return fmt.Sprintf("%s_%s:%d", file, funcName, line)
}
