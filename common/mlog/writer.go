package mlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/spf13/viper"
	"github.com/zhangsob/zeed/errors"
)

/* ------------------------------------------------------------------------------------------ */

// writer 定义了条目写入器接口。
type writer interface {
	// WriteEntry 利用写入器将日志条目写入到指定位置。
	WriteEntry(e *entry) error
	// Close 关闭写入日志的记录器。
	Close() error
}

/* ------------------------------------------------------------------------------------------ */

type terminalWriter struct {
	out   io.Writer
	color bool
}

func NewTerminalWriter() writer {
	return &terminalWriter{out: os.Stdout, color: true}
}

func (tw *terminalWriter) WriteEntry(e *entry) error {
	var line string
	if tw.color {
		line = e.ColorLevelString()
	} else {
		line = e.NormalLevelString()
	}
	_, err := io.WriteString(tw.out, line)
	return err
}

func (*terminalWriter) Close() error {
	return nil
}

/* ------------------------------------------------------------------------------------------ */

// multiFileWriter 每个日志等级一个子目录，单个文件写满 maxSize 字节后换一个新文件。
type multiFileWriter struct {
	// maxSize 定义一个日志文件所能存储的字节数。
	maxSize int64
	// writers 多种级别日志记录器。
	writers map[level]*fileWriter
}

func NewMultiFileWriter(dirPath string, maxSize int64) (writer, error) {
	if dirPath == "" {
		return nil, errors.NewError("invalid path, nil directory path")
	}
	if maxSize <= 0 {
		maxSize = DefaultSingleFileMaxSize
	}

	mfw := &multiFileWriter{
		maxSize: maxSize,
		writers: make(map[level]*fileWriter),
	}

	for _, lvl := range levels {
		if err := os.MkdirAll(filepath.Join(dirPath, lvl.String()), os.FileMode(0775)); err != nil {
			return nil, errors.NewErrorf("failed creating %s log directory, the error is \"%s\"", lvl.String(), err.Error())
		}
		wr, err := newFileWriter(dirPath, lvl)
		if err != nil {
			return nil, err
		}
		mfw.writers[lvl] = wr
	}

	return mfw, nil
}

func (mfw *multiFileWriter) WriteEntry(e *entry) error {
	wr, ok := mfw.writers[e.level]
	if !ok {
		return errors.NewErrorf("no log file for level \"%s\"", e.level.String())
	}
	return wr.write(mfw.maxSize, e)
}

func (mfw *multiFileWriter) Close() error {
	var first error
	for lvl, wr := range mfw.writers {
		if err := wr.close(); err != nil && first == nil {
			first = errors.NewErrorf("failed closing %s log file, the error is \"%s\"", lvl.String(), err.Error())
		}
	}
	return first
}

/* ------------------------------------------------------------------------------------------ */

type fileWriter struct {
	dirPath        string
	lvl            level
	alreadyWritten int64
	num            int
	wr             *os.File
	mutex          sync.Mutex
}

func newFileWriter(dirPath string, lvl level) (*fileWriter, error) {
	files, err := os.ReadDir(filepath.Join(dirPath, lvl.String()))
	if err != nil {
		return nil, errors.NewErrorf("failed reading %s log directory \"%s\", the error is \"%s\"", lvl.String(), filepath.Join(dirPath, lvl.String()), err.Error())
	}

	// 接着最后一个文件继续写。
	var recordedLogFilesNum int
	var latestAlreadyWritten int64
	reg := regexp.MustCompile(fmt.Sprintf(`^%s-\d+\.log$`, lvl.String()))
	for _, file := range files {
		if reg.MatchString(file.Name()) {
			recordedLogFilesNum++
		}
	}
	if recordedLogFilesNum > 0 {
		stat, err := os.Stat(logFilePath(dirPath, lvl, recordedLogFilesNum))
		if err != nil {
			return nil, errors.NewErrorf("cannot fetch the latest information of the %s log file, the error is \"%s\"", lvl.String(), err.Error())
		}
		latestAlreadyWritten = stat.Size()
	} else {
		recordedLogFilesNum = 1
	}

	return &fileWriter{
		dirPath:        dirPath,
		lvl:            lvl,
		num:            recordedLogFilesNum,
		alreadyWritten: latestAlreadyWritten,
	}, nil
}

func logFilePath(dirPath string, lvl level, num int) string {
	return filepath.Join(dirPath, lvl.String(), fmt.Sprintf("%s-%d.log", lvl.String(), num))
}

func (fw *fileWriter) write(max int64, e *entry) (err error) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()

	if fw.wr == nil {
		fw.wr, err = os.OpenFile(logFilePath(fw.dirPath, fw.lvl, fw.num), os.O_CREATE|os.O_APPEND|os.O_RDWR, os.FileMode(0600))
		if err != nil {
			fw.wr = nil
			return errors.NewErrorf("failed opening the %s log file, the error is \"%s\"", fw.lvl.String(), err.Error())
		}
	}

	n, err := fw.wr.WriteString(e.NormalLevelString())
	if err != nil {
		return errors.NewErrorf("failed writing log entry to the %s file, the error is \"%s\"", fw.lvl.String(), err.Error())
	}
	fw.alreadyWritten += int64(n)

	if fw.alreadyWritten >= max {
		fw.wr.Close()
		fw.wr = nil
		fw.alreadyWritten = 0
		fw.num++
	}
	return nil
}

func (fw *fileWriter) close() error {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	if fw.wr == nil {
		return nil
	}
	err := fw.wr.Close()
	fw.wr = nil
	return err
}

/* ------------------------------------------------------------------------------------------ */

// DefaultSingleFileMaxSize 单个日志文件默认最多 10MB。
const DefaultSingleFileMaxSize = 10 << 20

// Config 对应配置文件中的 log 部分。
type Config struct {
	Level             string `json:"level" yaml:"Level" mapstructure:"Level"`
	DirPath           string `json:"dir_path" yaml:"DirPath" mapstructure:"DirPath"`
	SingleFileMaxSize int64  `json:"single_file_max_size" yaml:"SingleFileMaxSize" mapstructure:"SingleFileMaxSize"`
}

// ReadConfig 从 v 中读取 log 部分。相对的 DirPath 以 ZEED_HOME 为根目录。
func ReadConfig(v *viper.Viper) (*Config, error) {
	opts := &Config{}
	if v == nil {
		return opts, nil
	}
	if err := v.UnmarshalKey("log", opts); err != nil {
		return nil, errors.Newf(errors.KindConfig, "cannot read log config, the error is \"%s\"", err.Error())
	}
	if opts.DirPath != "" && !filepath.IsAbs(opts.DirPath) {
		opts.DirPath = filepath.Join(os.Getenv("ZEED_HOME"), opts.DirPath)
	}
	return opts, nil
}
