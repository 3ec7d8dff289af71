package mlog

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/zhangsob/zeed/errors"
)

/* ------------------------------------------------------------------------------------------ */

type entry struct {
	timestamp string
	module    string
	msg       string
	ctx       string
	level     level
}

func (e *entry) ColorLevelString() string {
	return fmt.Sprintf("%-23s | %-14s | %-16s | %s%s\n", e.timestamp, e.level.ColorString(), e.module, e.ctxPrefix(), e.msg)
}

func (e *entry) NormalLevelString() string {
	return fmt.Sprintf("%-23s | %-5s | %-16s | %s%s\n", e.timestamp, e.level.String(), e.module, e.ctxPrefix(), e.msg)
}

func (e *entry) ctxPrefix() string {
	if e.ctx == "" {
		return ""
	}
	return "[" + e.ctx + "] "
}

// newEntry 必须由日志方法直接调用，printPath 记录的是日志方法的调用位置。
func newEntry(timestamp string, module string, level level, msg string, ctx string, printPath bool) *entry {
	if printPath {
		msg = callerPath(3) + " => " + msg
	}

	return &entry{
		timestamp: timestamp,
		module:    module,
		level:     level,
		msg:       msg,
		ctx:       ctx,
	}
}

func callerPath(skip int) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown path"
	}
	index := strings.Index(file, errors.PrefixPath)
	if index == -1 {
		file = file[strings.LastIndex(file, "/")+1:]
	} else {
		file = file[index+len(errors.PrefixPath):]
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
