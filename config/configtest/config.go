// Package configtest 帮助测试找到仓库里的 sampleconfig 目录。
package configtest

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/zhangsob/zeed/errors"
)

// AddDevConfigPath 将存放项目的默认配置文件的路径添加到 viper 中。
func AddDevConfigPath(v *viper.Viper) {
	devPath := GetDevConfigDir()
	if v != nil {
		v.AddConfigPath(devPath)
	} else {
		viper.AddConfigPath(devPath)
	}
}

func GetDevConfigDir() string {
	path, err := gomodDevConfigDir()
	if err != nil {
		path, err = gopathDevConfigDir()
		if err != nil {
			panic(err)
		}
	}
	return path
}

// SetDevZeedConfigPath 在测试期间把 ZEED_CONFIG_PATH 指向 sampleconfig。
func SetDevZeedConfigPath(t *testing.T) {
	t.Helper()
	t.Setenv("ZEED_CONFIG_PATH", GetDevConfigDir())
}

/* ------------------------------------------------------------------------------------------ */

func gopathDevConfigDir() (string, error) {
	buf := bytes.NewBuffer(nil)
	cmd := exec.Command("go", "env", "GOPATH")
	cmd.Stdout = buf
	if err := cmd.Run(); err != nil {
		return "", err
	}

	gopath := strings.TrimSpace(buf.String())
	for _, path := range filepath.SplitList(gopath) {
		devPath := filepath.Join(path, "src/github.com/zhangsob/zeed/sampleconfig")
		if dirExists(devPath) {
			return devPath, nil
		}
	}

	return "", errors.NewErrorf("failed finding sampleconfig directory on GOPATH")
}

func gomodDevConfigDir() (string, error) {
	buf := bytes.NewBuffer(nil)
	cmd := exec.Command("go", "env", "GOMOD")
	cmd.Stdout = buf
	if err := cmd.Run(); err != nil {
		return "", err
	}

	modFile := strings.TrimSpace(buf.String())
	if modFile == "" || modFile == os.DevNull {
		return "", errors.NewError("not a module or not in module mode")
	}

	devPath := filepath.Join(filepath.Dir(modFile), "sampleconfig")
	if !dirExists(devPath) {
		return "", errors.NewErrorf("%s does not exist", devPath)
	}

	return devPath, nil
}

func dirExists(path string) bool {
	stat, err := os.Stat(path)
	if err != nil {
		return false
	}
	return stat.IsDir()
}
