package mlog

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zhangsob/zeed/errors"
)

/* ------------------------------------------------------------------------------------------ */

type Logger interface {
	Debug(msg string)
	Debugf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Warn(msg string)
	Warnf(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})
	Panic(msg string)
	Panicf(format string, args ...interface{})
	With(key, value string) Logger
	Stop() error
}

/* ------------------------------------------------------------------------------------------ */

var now = func() string {
	return time.Now().Format("2006-01-02 15:04:05.000")
}

// bus 所有 logger 共享的输出端。
type bus struct {
	mutex     sync.RWMutex
	terminal  writer
	file      writer
	isStopped bool
}

var loggerBus = &bus{terminal: NewTerminalWriter()}

// overrideLevel 由 Configure 设置，非 0 时代替各个 logger 自己的日志等级。
var overrideLevel uint32

func (b *bus) write(e *entry) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	if b.isStopped {
		return
	}
	if b.file != nil {
		b.file.WriteEntry(e)
	}
	if b.terminal != nil {
		b.terminal.WriteEntry(e)
	}
}

// Configure 根据配置设置文件输出，DirPath 为空时只输出到终端。之前打开的日志文件会被关闭。
// Level 不为空时所有 logger 都改用此日志等级。
func Configure(cfg *Config) error {
	var override level
	if cfg != nil && cfg.Level != "" {
		if override = ParseLevel(cfg.Level); override == NaN {
			return errors.Newf(errors.KindConfig, "unknown log level \"%s\"", cfg.Level)
		}
	}

	var fw writer
	if cfg != nil && cfg.DirPath != "" {
		mfw, err := NewMultiFileWriter(cfg.DirPath, cfg.SingleFileMaxSize)
		if err != nil {
			return err
		}
		fw = mfw
	}

	loggerBus.mutex.Lock()
	defer loggerBus.mutex.Unlock()
	if loggerBus.file != nil {
		loggerBus.file.Close()
	}
	loggerBus.file = fw
	loggerBus.isStopped = false
	atomic.StoreUint32(&overrideLevel, uint32(override))
	return nil
}

// SetOutput 把终端输出重定向到 out（不带颜色），out 为 nil 时不再输出到终端。
func SetOutput(out io.Writer) {
	loggerBus.mutex.Lock()
	defer loggerBus.mutex.Unlock()
	if out == nil {
		loggerBus.terminal = nil
		return
	}
	loggerBus.terminal = &terminalWriter{out: out}
}

/* ------------------------------------------------------------------------------------------ */

type logger struct {
	// lvl 定义记录的日志等级。
	lvl level

	// printPath 字段控制是否在每条日志记录上增加 file:line 信息。
	printPath bool

	// module 定义日志输出器 logger 属于项目的哪个模块。
	module string

	// ctx 定义日志输出器 logger 的上下文信息，键值交替存放。
	ctx []string
}

func GetLogger(module string, lvl level, printPath ...bool) Logger {
	l := &logger{
		lvl:    lvl,
		module: module,
	}
	if len(printPath) > 0 {
		l.printPath = printPath[0]
	}
	return l
}

func (l *logger) Debug(msg string) {
	if l.silent(DebugLevel) {
		return
	}
	loggerBus.write(newEntry(now(), l.module, DebugLevel, msg, l.ctxStr(), l.printPath))
}

func (l *logger) Debugf(format string, args ...interface{}) {
	if l.silent(DebugLevel) {
		return
	}
	loggerBus.write(newEntry(now(), l.module, DebugLevel, fmt.Sprintf(format, args...), l.ctxStr(), l.printPath))
}

func (l *logger) Info(msg string) {
	if l.silent(InfoLevel) {
		return
	}
	loggerBus.write(newEntry(now(), l.module, InfoLevel, msg, l.ctxStr(), l.printPath))
}

func (l *logger) Infof(format string, args ...interface{}) {
	if l.silent(InfoLevel) {
		return
	}
	loggerBus.write(newEntry(now(), l.module, InfoLevel, fmt.Sprintf(format, args...), l.ctxStr(), l.printPath))
}

func (l *logger) Warn(msg string) {
	if l.silent(WarnLevel) {
		return
	}
	loggerBus.write(newEntry(now(), l.module, WarnLevel, msg, l.ctxStr(), l.printPath))
}

func (l *logger) Warnf(format string, args ...interface{}) {
	if l.silent(WarnLevel) {
		return
	}
	loggerBus.write(newEntry(now(), l.module, WarnLevel, fmt.Sprintf(format, args...), l.ctxStr(), l.printPath))
}

func (l *logger) Error(msg string) {
	if l.silent(ErrorLevel) {
		return
	}
	loggerBus.write(newEntry(now(), l.module, ErrorLevel, msg, l.ctxStr(), l.printPath))
}

func (l *logger) Errorf(format string, args ...interface{}) {
	if l.silent(ErrorLevel) {
		return
	}
	loggerBus.write(newEntry(now(), l.module, ErrorLevel, fmt.Sprintf(format, args...), l.ctxStr(), l.printPath))
}

// Panic 记录日志之后 panic。
func (l *logger) Panic(msg string) {
	if !l.silent(PanicLevel) {
		loggerBus.write(newEntry(now(), l.module, PanicLevel, msg, l.ctxStr(), l.printPath))
	}
	panic(msg)
}

func (l *logger) Panicf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !l.silent(PanicLevel) {
		loggerBus.write(newEntry(now(), l.module, PanicLevel, msg, l.ctxStr(), l.printPath))
	}
	panic(msg)
}

// With 返回一个附带了 key=value 上下文的新 logger，原 logger 不受影响。
func (l *logger) With(key, value string) Logger {
	ctx := make([]string, len(l.ctx), len(l.ctx)+2)
	copy(ctx, l.ctx)
	return &logger{
		lvl:       l.lvl,
		printPath: l.printPath,
		module:    l.module,
		ctx:       append(ctx, key, value),
	}
}

// Stop 关闭所有 logger 共享的输出端，之后的日志全部丢弃，直到再次调用 Configure。
func (l *logger) Stop() error {
	loggerBus.mutex.Lock()
	defer loggerBus.mutex.Unlock()
	loggerBus.isStopped = true
	if loggerBus.file == nil {
		return nil
	}
	err := loggerBus.file.Close()
	loggerBus.file = nil
	return err
}

// silent 给定的日志等级如果小于 logger 设定的日志等级，则保持沉默，不输出日志信息。
func (l *logger) silent(lvl level) bool {
	if o := level(atomic.LoadUint32(&overrideLevel)); o != 0 {
		return lvl < o
	}
	return lvl < l.lvl
}

func (l *logger) ctxStr() string {
	if len(l.ctx) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(l.ctx)/2)
	for i := 0; i+1 < len(l.ctx); i += 2 {
		key, value := l.ctx[i], l.ctx[i+1]
		if key == "" {
			key = "unknown"
		}
		if value == "" {
			value = "unknown"
		}
		pairs = append(pairs, key+"="+value)
	}
	return strings.Join(pairs, ";")
}
