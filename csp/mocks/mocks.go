// Package mocks 提供 csp 组件接口的 testify 模拟实现。
package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/zhangsob/zeed/csp/interfaces"
)

type MockKey struct {
	mock.Mock
}

func (m *MockKey) Bytes() ([]byte, error) {
	args := m.Called()
	raw, _ := args.Get(0).([]byte)
	return raw, args.Error(1)
}

func (m *MockKey) SKI() []byte {
	ski, _ := m.Called().Get(0).([]byte)
	return ski
}

func (m *MockKey) Symmetric() bool {
	return m.Called().Bool(0)
}

/* ------------------------------------------------------------------------------------------ */

type MockKeyImporter struct {
	mock.Mock
}

func (m *MockKeyImporter) KeyImport(raw interface{}, opts interfaces.KeyImportOpts) (interfaces.Key, error) {
	args := m.Called(raw, opts)
	key, _ := args.Get(0).(interfaces.Key)
	return key, args.Error(1)
}

type MockKeyDeriver struct {
	mock.Mock
}

func (m *MockKeyDeriver) KeyDeriv(key interfaces.Key, opts interfaces.KeyDerivOpts) (interfaces.Key, error) {
	args := m.Called(key, opts)
	dk, _ := args.Get(0).(interfaces.Key)
	return dk, args.Error(1)
}

/* ------------------------------------------------------------------------------------------ */

type MockEncrypter struct {
	mock.Mock
}

func (m *MockEncrypter) Encrypt(key interfaces.Key, plaintext []byte, opts interfaces.EncrypterOpts) ([]byte, error) {
	args := m.Called(key, plaintext, opts)
	ciphertext, _ := args.Get(0).([]byte)
	return ciphertext, args.Error(1)
}

type MockDecrypter struct {
	mock.Mock
}

func (m *MockDecrypter) Decrypt(key interfaces.Key, ciphertext []byte, opts interfaces.DecrypterOpts) ([]byte, error) {
	args := m.Called(key, ciphertext, opts)
	plaintext, _ := args.Get(0).([]byte)
	return plaintext, args.Error(1)
}

/* ------------------------------------------------------------------------------------------ */

// MockKeyDerivOpts 与 MockKeyImportOpts 的 Algorithm 返回 Name。
type MockKeyDerivOpts struct {
	Name string
}

func (o *MockKeyDerivOpts) Algorithm() string {
	return o.Name
}

type MockKeyImportOpts struct {
	Name string
}

func (o *MockKeyImportOpts) Algorithm() string {
	return o.Name
}
