// Package config 定位并读取 zeed 的 YAML 配置文件。
package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/zhangsob/zeed/errors"
)

const (
	// OfficialPath 没有设置 ZEED_CONFIG_PATH 时，除当前目录外还会在此目录下查找配置文件。
	OfficialPath = "/etc/zhangsob/zeed"

	// DefaultConfigName 配置文件的默认名字（不带扩展名）。
	DefaultConfigName = "config"
)

func dirExists(path string) bool {
	stat, err := os.Stat(path)
	if err != nil {
		return false
	}
	return stat.IsDir()
}

func AddConfigPath(v *viper.Viper, path string) {
	if v != nil {
		v.AddConfigPath(path)
	} else {
		viper.AddConfigPath(path)
	}
}

// TranslatePath 判断给定的路径（第二个参数）是否是绝对路径，若是，直接返回此路径，否则返回
// base/path。
func TranslatePath(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// TranslatePathInPlace 判断给定的路径（第二个参数）是否是绝对路径，若是，不做任何处理，否则
// 让第二个参数 path = base/path。
func TranslatePathInPlace(base string, path *string) {
	*path = TranslatePath(base, *path)
}

// GetPath 读取 key 对应的路径，相对路径以配置文件所在的目录为根目录。
func GetPath(v *viper.Viper, key string) string {
	if v == nil {
		v = viper.GetViper()
	}
	path := v.GetString(key)
	if path == "" {
		return ""
	}

	return TranslatePath(filepath.Dir(v.ConfigFileUsed()), path)
}

// InitViper 设置查找配置文件的目录：设置了 ZEED_CONFIG_PATH 时只在该目录下查找，
// 否则依次查找当前目录、$ZEED_HOME/sampleconfig 和 OfficialPath。
func InitViper(v *viper.Viper, configName string) error {
	altPath := os.Getenv("ZEED_CONFIG_PATH")
	if altPath != "" {
		if !dirExists(altPath) {
			return errors.Newf(errors.KindConfig, "ZEED_CONFIG_PATH %s does not exist", altPath)
		}

		AddConfigPath(v, altPath)
	} else {
		AddConfigPath(v, "./")

		if home := os.Getenv("ZEED_HOME"); home != "" {
			AddConfigPath(v, filepath.Join(home, "sampleconfig"))
		}

		if dirExists(OfficialPath) {
			AddConfigPath(v, OfficialPath)
		}
	}

	if v != nil {
		v.SetConfigName(configName)
	} else {
		viper.SetConfigName(configName)
	}

	return nil
}

// Load 按照 InitViper 的规则查找名为 configName 的 YAML 文件并读取，configName 为空时使用 DefaultConfigName。
func Load(configName string) (*viper.Viper, error) {
	if configName == "" {
		configName = DefaultConfigName
	}

	v := viper.New()
	if err := InitViper(v, configName); err != nil {
		return nil, err
	}
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Newf(errors.KindConfig, "cannot read config file \"%s\", the error is \"%s\"", configName, err.Error())
	}
	return v, nil
}

// FromBytes 从内存中的 YAML 文本读取配置。
func FromBytes(data []byte) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, errors.Newf(errors.KindConfig, "cannot parse config, the error is \"%s\"", err.Error())
	}
	return v, nil
}
