package screens

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

var bookExtensions = map[string]bool{
	".epub": true,
	".xtc":  true,
	".xtch": true,
	".txt":  true,
}

// library lists the books in a directory. Opened with GoToMyLibrary it
// starts the reader itself; started for a result it finishes with the
// chosen path as a FileResult.
type library struct {
	*activity.Base
	deps      Deps
	dir       string
	forResult bool
	books     []string
	list      *optionList
}

func newLibrary(m *activity.Manager, d Deps, dir string, forResult bool) (*library, error) {
	if dir == "" {
		dir = d.Settings.BooksDir
	}
	books, err := listBooks(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(books))
	for i, b := range books {
		names[i] = filepath.Base(b)
	}
	return &library{
		Base:      activity.NewBase("MyLibrary", m),
		deps:      d,
		dir:       dir,
		forResult: forResult,
		books:     books,
		list:      newOptionList(names),
	}, nil
}

// listBooks returns the books directly in dir, sorted by name.
func listBooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read library %s: %w", dir, err)
	}
	var books []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if bookExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			books = append(books, filepath.Join(dir, e.Name()))
		}
	}
	sort.Slice(books, func(i, j int) bool {
		return strings.ToLower(books[i]) < strings.ToLower(books[j])
	})
	return books, nil
}

func (l *library) Loop() {
	if l.list.update(l.Input()) {
		l.RequestUpdate()
	}

	if l.Released(constants.ButtonBack) {
		if l.forResult {
			l.Cancel()
		} else {
			l.GoHome()
		}
		return
	}

	if !l.Released(constants.ButtonConfirm) || len(l.books) == 0 {
		return
	}
	path := l.books[l.list.index()]
	if l.forResult {
		l.FinishWithResult(activity.NewResult(activity.FileResult{Path: path}))
		return
	}
	l.GoToReader(path)
}

func (l *library) Render(*activity.RenderLock) {
	r := l.Renderer()
	r.ClearScreen()
	r.DrawCenteredText(30, l.deps.Tr.Tr("Library"), activity.StyleBold)
	if len(l.books) == 0 {
		r.DrawCenteredText(r.ScreenHeight()/2, l.deps.Tr.Tr("NoBooks"), activity.StyleItalic)
	} else {
		l.list.draw(r, 30+2*r.LineHeight())
	}
	drawHints(r, l.deps.Tr.Tr("Back"), l.deps.Tr.Tr("Confirm"))
	display(l.Base, l.deps.Settings.RefreshMode())
}
