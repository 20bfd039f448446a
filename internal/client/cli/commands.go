package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/dmitrijs2005/filekeeper/internal/client/models"
	"github.com/dmitrijs2005/filekeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) credentials() (string, []byte, error) {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return "", nil, err
	}
	return username, password, nil
}

// Register prompts for a username and password and creates the identity.
// The user is logged in afterwards.
func (a *App) Register(ctx context.Context) error {
	username, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.userService.Register(ctx, username, password)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Registered %s (trust id %s)", u.Username, u.TrustID))
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.userService.Login(ctx, username, password)
	if err != nil {
		return err
	}

	printlnFn("Logged in as", u.Username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.userService.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Logged out")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	u := a.sess.User()
	if u == nil {
		return common.ErrNotLoggedIn
	}

	printlnFn(fmt.Sprintf("user: %s  node: %s  ip: %s  mac: %s", u.Username, u.Node.UUID, u.Node.IP, u.Node.MAC))

	info, err := a.userService.Info(ctx)
	if err != nil {
		a.log.Warn(ctx, "remote user info unavailable", "err", err)
		return nil
	}
	keys := make([]string, 0, len(info))
	for k := range info {
		if k == "password" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		printlnFn(fmt.Sprintf("  %s: %s", k, info[k]))
	}
	return nil
}

func (a *App) Encrypt(ctx context.Context, path string) error {
	rec, err := a.fileService.Encrypt(ctx, path)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Encrypted %s (fingerprint %d)", rec.Path, rec.Fingerprint))
	return nil
}

func (a *App) Decrypt(ctx context.Context, path string) error {
	rec, err := a.fileService.Decrypt(ctx, path)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Decrypted %s", rec.Path))
	return nil
}

func (a *App) Fingerprint(ctx context.Context, path string) error {
	fp, err := a.fileService.Fingerprint(ctx, path)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("%d  %s", fp, path))
	return nil
}

// List prints local records, or the replicated ones when remote is set.
func (a *App) List(ctx context.Context, remote bool) error {
	var (
		recs []models.FileRecord
		err  error
	)
	if remote {
		recs, err = a.fileService.ListRemote(ctx)
	} else {
		recs, err = a.fileService.ListLocal(ctx)
	}
	if err != nil {
		return err
	}

	if len(recs) == 0 {
		printlnFn("No files")
		return nil
	}
	for _, r := range recs {
		printlnFn(fmt.Sprintf("%-20d %-9s %-24s %s", r.Fingerprint, r.Type, r.Name, r.Path))
	}
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	res, err := a.syncService.Flush(ctx)
	if err != nil {
		printlnFn(fmt.Sprintf("Sync stopped: %d sent, %d pending", res.Sent, res.Pending))
		return err
	}
	printlnFn(fmt.Sprintf("Sync done: %d sent, %d dropped", res.Sent, res.Dropped))
	return nil
}

// Users prints the identities registered on this machine.
func (a *App) Users(ctx context.Context) error {
	names, err := a.userService.Known(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		printlnFn("No users")
		return nil
	}
	for _, n := range names {
		printlnFn(n)
	}
	return nil
}
