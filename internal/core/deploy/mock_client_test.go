package deploy

import (
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/godeploy/godeploy/internal/core/section"
)

// MockClient mocks the Client interface for testing
type MockClient struct {
	mock.Mock
}

// ReadFile implements the Client.ReadFile method
func (m *MockClient) ReadFile(path string) ([]byte, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// WriteFile implements the Client.WriteFile method
func (m *MockClient) WriteFile(path string, content io.Reader) error {
	args := m.Called(path, content)
	return args.Error(0)
}

// MkdirAll implements the Client.MkdirAll method
func (m *MockClient) MkdirAll(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

// Delete implements the Client.Delete method
func (m *MockClient) Delete(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

// Close implements the Client.Close method
func (m *MockClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockClientFactory mocks the ClientFactory interface for testing
type MockClientFactory struct {
	mock.Mock
}

// NewClient implements the ClientFactory.NewClient method
func (m *MockClientFactory) NewClient(sec *section.Section) (Client, error) {
	args := m.Called(sec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Client), args.Error(1)
}
