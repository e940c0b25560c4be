package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/acquire"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/modinfo"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/repository"
)

// origin is a resolved source: the file name to install under, the known
// size and a way to read it from an offset.
type origin struct {
	name string
	size int64
	info *modinfo.Info
	open func(ctx context.Context, offset int64) (*repository.Body, error)
}

func (f *Factory) resolveOrigin(ctx context.Context, key acquire.SourceKey) (*origin, error) {
	switch key.Scheme() {
	case acquire.SchemeNXM:
		return f.nxmOrigin(ctx, key)
	case acquire.SchemeHTTP, acquire.SchemeHTTPS:
		return f.httpOrigin(key)
	case acquire.SchemeFile:
		return localOrigin(key)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, key.Scheme())
	}
}

func (f *Factory) nxmOrigin(ctx context.Context, key acquire.SourceKey) (*origin, error) {
	ref, err := repository.ParseNXM(key.String())
	if err != nil {
		return nil, err
	}
	if f.cfg.GameMode != "" && !strings.EqualFold(ref.Game, f.cfg.GameMode) {
		return nil, fmt.Errorf("%w: %s is not %s", ErrWrongGame, ref.Game, f.cfg.GameMode)
	}

	mod, err := f.repo.Mod(ctx, ref.Game, ref.ModID)
	if err != nil {
		return nil, err
	}
	file, err := f.repo.File(ctx, ref)
	if err != nil {
		return nil, err
	}
	link, err := f.repo.DownloadURL(ctx, ref)
	if err != nil {
		return nil, err
	}

	info := mod.Info(ref.Game)
	if file.Version != "" {
		info.Version = file.Version
	}
	return &origin{
		name: file.FileName,
		size: file.Size,
		info: info,
		open: func(ctx context.Context, offset int64) (*repository.Body, error) {
			return f.repo.Open(ctx, link, offset)
		},
	}, nil
}

func (f *Factory) httpOrigin(key acquire.SourceKey) (*origin, error) {
	u, err := url.Parse(key.String())
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}
	return &origin{
		name: path.Base(u.Path),
		open: func(ctx context.Context, offset int64) (*repository.Body, error) {
			return f.repo.Open(ctx, key.String(), offset)
		},
	}, nil
}

func localOrigin(key acquire.SourceKey) (*origin, error) {
	u, err := url.Parse(key.String())
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}
	p := filepath.FromSlash(u.Path)
	st, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("stat local source: %w", err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("local source %s is a directory", p)
	}
	return &origin{
		name: filepath.Base(p),
		size: st.Size(),
		open: func(ctx context.Context, offset int64) (*repository.Body, error) {
			return openLocal(p, offset)
		},
	}, nil
}

func openLocal(p string, offset int64) (*repository.Body, error) {
	fh, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open local source: %w", err)
	}
	st, err := fh.Stat()
	if err != nil {
		_ = fh.Close()
		return nil, fmt.Errorf("stat local source: %w", err)
	}
	if offset > st.Size() {
		_ = fh.Close()
		return nil, repository.ErrRangeNotSatisfiable
	}
	if _, err := fh.Seek(offset, io.SeekStart); err != nil {
		_ = fh.Close()
		return nil, fmt.Errorf("seek local source: %w", err)
	}
	return &repository.Body{ReadCloser: fh, Offset: offset, Total: st.Size(), Name: filepath.Base(p)}, nil
}

// safeName reduces a remote file name to a plain base name.
func safeName(name string) (string, error) {
	name = strings.TrimSpace(filepath.Base(filepath.FromSlash(name)))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", ErrNoFileName
	}
	return name, nil
}
