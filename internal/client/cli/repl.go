package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Encrypt(ctx context.Context, path string) error
	Decrypt(ctx context.Context, path string) error
	Fingerprint(ctx context.Context, path string) error
	List(ctx context.Context, remote bool) error
	Sync(ctx context.Context) error
	Users(ctx context.Context) error
}

// runREPL reads commands line by line and dispatches them to a.
//
//	Not logged in:  help, register, login, users, fp <path>, exit | quit
//	Logged in:      help, encrypt <path>, decrypt <path>, fp <path>,
//	                ls [-r], whoami, users, sync, logout, exit | quit
//
// Errors returned by handlers are printed and the loop goes on. The loop
// exits on scanner EOF or exit/quit.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("fk %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: encrypt <path>, decrypt <path>, fp <path>, ls [-r], whoami, users, sync, logout, exit")
			} else {
				printlnFn("Available commands: register, login, users, fp <path>, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.Whoami(ctx)

		case "encrypt", "decrypt", "fp":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <path>", cmd))
				continue
			}
			switch cmd {
			case "encrypt":
				err = a.Encrypt(ctx, args[0])
			case "decrypt":
				err = a.Decrypt(ctx, args[0])
			default:
				err = a.Fingerprint(ctx, args[0])
			}

		case "ls":
			err = a.List(ctx, len(args) > 0 && args[0] == "-r")

		case "sync":
			err = a.Sync(ctx)

		case "users":
			err = a.Users(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
