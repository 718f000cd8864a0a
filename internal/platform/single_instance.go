package platform

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"time"

	"tomatobar/internal/log"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const commandTimeout = 2 * time.Second

// CommandHandler executes a command forwarded by another process.
type CommandHandler func(Command) error

// InstanceGuard holds the single-instance lock. The lock is a localhost
// listener, which also receives command URLs from later launches.
type InstanceGuard struct {
	listener net.Listener
	address  string
}

// AcquireSingleInstance binds the port derived from appName.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	return acquireAddress(InstanceAddress(appName))
}

func acquireAddress(address string) (*InstanceGuard, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{listener: listener, address: listener.Addr().String()}, nil
}

// InstanceAddress returns the lock address for appName.
func InstanceAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

// Serve accepts one command URL per connection until ctx ends or the
// guard is released. Bad requests are logged and answered with an error.
func (guard *InstanceGuard) Serve(ctx context.Context, handle CommandHandler) {
	go func() {
		<-ctx.Done()
		_ = guard.Release()
	}()

	for {
		conn, err := guard.listener.Accept()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				log.Warn(log.CatPlatform, "accept command connection", "error", err)
			}
			return
		}
		go serveConn(conn, handle)
	}
}

func serveConn(conn net.Conn, handle CommandHandler) {
	defer func() { _ = conn.Close() }()
	_ = conn.SetDeadline(time.Now().Add(commandTimeout))

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && line == "" {
		log.Warn(log.CatPlatform, "read command", "error", err)
		return
	}

	reply := "ok"
	command, err := ParseCommandURL(line)
	if err == nil {
		err = handle(command)
	}
	if err != nil {
		log.Warn(log.CatPlatform, "command rejected", "url", strings.TrimSpace(line), "error", err)
		reply = "error: " + err.Error()
	} else {
		log.Info(log.CatPlatform, "command received", "command", command)
	}
	_, _ = fmt.Fprintln(conn, reply)
}

// SendCommand forwards rawURL to the instance holding the lock for appName.
func SendCommand(appName, rawURL string) error {
	return sendCommand(InstanceAddress(appName), rawURL)
}

func sendCommand(address, rawURL string) error {
	conn, err := net.DialTimeout("tcp", address, commandTimeout)
	if err != nil {
		return fmt.Errorf("connect to running instance: %w", err)
	}
	defer func() { _ = conn.Close() }()
	_ = conn.SetDeadline(time.Now().Add(commandTimeout))

	if _, err := fmt.Fprintln(conn, strings.TrimSpace(rawURL)); err != nil {
		return fmt.Errorf("send command: %w", err)
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read reply: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply != "ok" {
		return fmt.Errorf("running instance: %s", strings.TrimPrefix(reply, "error: "))
	}
	return nil
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
