package dotini

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"

	"github.com/ardnew/dotini/log"
	"github.com/ardnew/dotini/parse"
	"github.com/ardnew/dotini/tree"
)

const mainINI = `
name = app
version = 3
ratio = "3.0"
half = 3.5
home = ${HOME_DIR}
host = $[HOST]
missing = $[UNSET_VAR]
greeting = hello $(name)
forward = $(later)
later = here
enabled = yes

[db]
port = 5432
url = pg://$[HOST]:$(db/port)/$(name)
hosts[] = $(name)-1
hosts[] = $(name)-2

[shared]
common = $<common>
after = $(shared/common/level)
`

const commonINI = `
level = debug
who = $(name)
`

// memFs returns an in-memory filesystem holding files.
func memFs(files map[string]string) afero.Fs {
	fs := afero.NewMemMapFs()

	for name, body := range files {
		if err := afero.WriteFile(fs, name, []byte(body), 0o644); err != nil {
			panic(err)
		}
	}

	return fs
}

func lookup(t *tree.Tree, path string) any {
	v, _ := t.Lookup(path, ".")

	return v
}

func testOptions(fs afero.Fs, extra ...Option) []Option {
	return append([]Option{
		WithFs(fs),
		WithLogger(log.Make(nil)),
		WithLookupEnv(mapLookup(map[string]string{"HOME_DIR": "/home/u"})),
		WithContext(map[string]string{"HOST": "db.local"}),
		WithRegistry(NewMapRegistry()),
	}, extra...)
}

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()

	Convey("Given a file with every reference kind", t, func() {
		fs := memFs(map[string]string{
			"/cfg/main.ini":   mainINI,
			"/cfg/common.ini": commonINI,
		})
		reg := NewMapRegistry()
		l := New(testOptions(fs, WithRegistry(reg))...)

		tr, err := l.Load(ctx, "/cfg/main.ini", "")
		So(err, ShouldBeNil)

		Convey("It keeps the shape and leaves typed values alone", func() {
			So(lookup(tr, "name"), ShouldEqual, "app")
			So(lookup(tr, "version"), ShouldEqual, int64(3))
			So(lookup(tr, "enabled"), ShouldEqual, true)

			var keys []string
			for k := range tr.Keys() {
				keys = append(keys, k)
			}

			So(keys, ShouldResemble, []string{
				"name", "version", "ratio", "half", "home", "host", "missing",
				"greeting", "forward", "later", "enabled", "db", "shared",
			})
		})

		Convey("It coerces numeric strings", func() {
			So(lookup(tr, "ratio"), ShouldEqual, float64(3))
			So(lookup(tr, "half"), ShouldEqual, 3.5)
			So(lookup(tr, "db.port"), ShouldEqual, int64(5432))
		})

		Convey("It substitutes environment and context variables", func() {
			So(lookup(tr, "home"), ShouldEqual, "/home/u")
			So(lookup(tr, "host"), ShouldEqual, "db.local")
			So(lookup(tr, "missing"), ShouldEqual, "")
		})

		Convey("Self references resolve backward only", func() {
			So(lookup(tr, "greeting"), ShouldEqual, "hello app")
			So(lookup(tr, "forward"), ShouldEqual, "")
			So(lookup(tr, "db.url"), ShouldEqual, "pg://db.local:5432/app")
		})

		Convey("Array elements are resolved and recorded by index", func() {
			So(lookup(tr, "db.hosts"), ShouldResemble, []any{"app-1", "app-2"})

			v, ok := l.Table().Get("db.hosts.1")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "app-2")
		})

		Convey("Includes splice the sibling file under the including key", func() {
			sub, ok := lookup(tr, "shared.common").(*tree.Tree)
			So(ok, ShouldBeTrue)
			So(lookup(sub, "level"), ShouldEqual, "debug")
			So(lookup(sub, "who"), ShouldEqual, "app")
			So(lookup(tr, "shared.after"), ShouldEqual, "debug")

			_, ok = l.Table().Get("shared.common")
			So(ok, ShouldBeFalse)
		})

		Convey("The table lists every scalar in resolution order", func() {
			var paths []string
			for p := range l.Table().All() {
				paths = append(paths, p)
			}

			So(paths, ShouldResemble, []string{
				"name", "version", "ratio", "half", "home", "host", "missing",
				"greeting", "forward", "later", "enabled",
				"db.port", "db.url", "db.hosts.0", "db.hosts.1",
				"shared.common.level", "shared.common.who", "shared.after",
			})
		})

		Convey("Nothing is materialized by default", func() {
			So(reg.Len(), ShouldEqual, 0)
		})
	})
}

func TestLoader_Materialize(t *testing.T) {
	ctx := context.Background()

	Convey("Given a loader that materializes constants", t, func() {
		fs := memFs(map[string]string{
			"/cfg/main.ini": "top = t\nnothing = null\n[foo]\nbar = baz\nn = 7\nz = null\n",
		})
		reg := NewMapRegistry()

		Convey("Each scalar is defined under its path with the key uppercased", func() {
			_, err := Set(ctx, "/cfg/main.ini", "", testOptions(fs, WithRegistry(reg))...)
			So(err, ShouldBeNil)

			v, ok := reg.Lookup("TOP")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "t")

			v, ok = reg.Lookup("foo.BAR")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "baz")

			v, _ = reg.Lookup("foo.N")
			So(v, ShouldEqual, int64(7))

			_, ok = reg.Lookup("FOO.BAR")
			So(ok, ShouldBeFalse)
		})

		Convey("Null values are kept in the tree but not recorded", func() {
			l := New(testOptions(fs, WithRegistry(reg), WithMaterialize(true))...)

			tr, err := l.Load(ctx, "/cfg/main.ini", "")
			So(err, ShouldBeNil)

			v, ok := tr.Lookup("foo.z", ".")
			So(ok, ShouldBeTrue)
			So(v, ShouldBeNil)

			_, ok = l.Table().Get("foo.z")
			So(ok, ShouldBeFalse)
			_, ok = l.Table().Get("nothing")
			So(ok, ShouldBeFalse)

			_, ok = reg.Lookup("foo.Z")
			So(ok, ShouldBeFalse)
			_, ok = reg.Lookup("NOTHING")
			So(ok, ShouldBeFalse)
			So(reg.Len(), ShouldEqual, 3)
		})

		Convey("A prefix and separator qualify every name", func() {
			l := New(testOptions(fs,
				WithRegistry(reg),
				WithMaterialize(true),
				WithSeparator("/"),
			)...)

			_, err := l.Load(ctx, "/cfg/main.ini", "app")
			So(err, ShouldBeNil)

			v, ok := l.Table().Get("app/foo/bar")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "baz")

			_, ok = reg.Lookup("app/foo/BAR")
			So(ok, ShouldBeTrue)
		})

		Convey("A refused definition does not fail the load", func() {
			So(reg.Define("foo.BAR", "taken"), ShouldBeNil)

			tr, err := Set(ctx, "/cfg/main.ini", "", testOptions(fs, WithRegistry(reg))...)
			So(err, ShouldBeNil)
			So(lookup(tr, "foo.bar"), ShouldEqual, "baz")

			v, _ := reg.Lookup("foo.BAR")
			So(v, ShouldEqual, "taken")

			v, _ = reg.Lookup("foo.N")
			So(v, ShouldEqual, int64(7))
		})

		Convey("Set targets Constants without a registry option", func() {
			Constants.Reset()
			Reset(Constants.Reset)

			_, err := Set(ctx, "/cfg/main.ini", "",
				WithFs(fs), WithLogger(log.Make(nil)))
			So(err, ShouldBeNil)

			v, ok := Constant("foo.BAR")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "baz")
		})
	})
}

func TestLoader_Files(t *testing.T) {
	ctx := context.Background()

	Convey("Given a set of files", t, func() {
		fs := memFs(map[string]string{
			"/dir/.ini":       "a = 1\nb = $(a)\n",
			"/abs/other.ini":  "z = 26\n",
			"/inc/main.ini":   "[x]\nc = $<common>\n[y]\nc = $<common>\n[z]\nc = $</abs/other>\n",
			"/inc/common.ini": "k = v\n",
			"/cyc/a.ini":      "x = $<b>\n",
			"/cyc/b.ini":      "y = $<a>\n",
			"/cyc/self.ini":   "me = $<self>\n",
			"/deep/l0.ini":    "n = $<l1>\n",
			"/deep/l1.ini":    "n = $<l2>\n",
			"/deep/l2.ini":    "n = leaf\n",
			"/bad/bad.ini":    "[oops\nk = v\n",
			"/bad/inc.ini":    "k = $<bad>\n",
			"/bad/gone.ini":   "k = $<nope>\n",
		})

		load := func(name string, opts ...Option) (*tree.Tree, error) {
			return Load(ctx, name, "", testOptions(fs, opts...)...)
		}

		Convey("A directory loads its default file", func() {
			byDir, err := load("/dir")
			So(err, ShouldBeNil)

			byFile, err := load("/dir/.ini")
			So(err, ShouldBeNil)

			a, _ := json.Marshal(byDir)
			b, _ := json.Marshal(byFile)
			So(string(a), ShouldEqual, string(b))
			So(string(a), ShouldEqual, `{"a":1,"b":1}`)
		})

		Convey("A missing file fails with ErrNotFound", func() {
			tr, err := load("/nonexistent")
			So(tr, ShouldBeNil)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)

			_, err = load("/abs")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("A path through a regular file fails with ErrNotFound", func() {
			dir := t.TempDir()
			mainFile := filepath.Join(dir, "main.ini")
			So(os.WriteFile(mainFile, []byte("a = $<main.ini/child>\n"), 0o600), ShouldBeNil)

			osLoad := func(name string) error {
				_, err := Load(ctx, name, "", testOptions(afero.NewOsFs())...)

				return err
			}

			err := osLoad(filepath.Join(mainFile, "x"))
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(errors.Is(err, ErrRead), ShouldBeFalse)

			err = osLoad(mainFile)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(errors.Is(err, ErrRead), ShouldBeFalse)
		})

		Convey("The same file may be included from several branches", func() {
			tr, err := load("/inc/main.ini")
			So(err, ShouldBeNil)
			So(lookup(tr, "x.c.k"), ShouldEqual, "v")
			So(lookup(tr, "y.c.k"), ShouldEqual, "v")
			So(lookup(tr, "z.c.z"), ShouldEqual, int64(26))
		})

		Convey("Include cycles fail with ErrCyclicInclude", func() {
			_, err := load("/cyc/a.ini")
			So(errors.Is(err, ErrCyclicInclude), ShouldBeTrue)

			_, err = load("/cyc/self.ini")
			So(errors.Is(err, ErrCyclicInclude), ShouldBeTrue)
		})

		Convey("Include depth is bounded", func() {
			_, err := load("/deep/l0.ini", WithMaxDepth(1))
			So(errors.Is(err, ErrMaxDepthExceeded), ShouldBeTrue)

			tr, err := load("/deep/l0.ini")
			So(err, ShouldBeNil)
			So(lookup(tr, "n.n.n"), ShouldEqual, "leaf")
		})

		Convey("Parse errors carry the parser diagnostic", func() {
			_, err := load("/bad/bad.ini")
			So(errors.Is(err, ErrParse), ShouldBeTrue)

			var pe *parse.Error
			So(errors.As(err, &pe), ShouldBeTrue)
			So(pe.File, ShouldEqual, "/bad/bad.ini")
			So(pe.Message, ShouldContainSubstring, "unclosed section")
		})

		Convey("Include failures abort the outer load", func() {
			tr, err := load("/bad/inc.ini")
			So(tr, ShouldBeNil)
			So(errors.Is(err, ErrParse), ShouldBeTrue)

			_, err = load("/bad/gone.ini")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})
	})
}
