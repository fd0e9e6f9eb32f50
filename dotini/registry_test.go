package dotini

import (
	"errors"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMapRegistry(t *testing.T) {
	Convey("Given an empty MapRegistry", t, func() {
		r := NewMapRegistry()

		Convey("Define binds names in order", func() {
			So(r.Define("B", 1), ShouldBeNil)
			So(r.Define("A", "x"), ShouldBeNil)
			So(r.Len(), ShouldEqual, 2)

			var names []string
			for name := range r.All() {
				names = append(names, name)
			}

			So(names, ShouldResemble, []string{"B", "A"})
		})

		Convey("Define refuses redefinition", func() {
			So(r.Define("A", 1), ShouldBeNil)

			err := r.Define("A", 2)
			So(errors.Is(err, ErrAlreadyDefined), ShouldBeTrue)

			v, ok := r.Lookup("A")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 1)
		})

		Convey("Reset removes every constant", func() {
			So(r.Define("A", 1), ShouldBeNil)
			r.Reset()
			So(r.Len(), ShouldEqual, 0)

			_, ok := r.Lookup("A")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestEnvRegistry(t *testing.T) {
	Convey("Given an EnvRegistry", t, func() {
		env := map[string]string{}
		r := EnvRegistry{Setenv: func(k, v string) error {
			env[k] = v

			return nil
		}}

		Convey("Names are mapped onto variable names", func() {
			So(r.Define("db.HOST-NAME", "h"), ShouldBeNil)
			So(r.Define(`app/sub\KEY`, int64(5)), ShouldBeNil)
			So(r.Define("RATE", 0.5), ShouldBeNil)
			So(r.Define("NONE", nil), ShouldBeNil)

			So(env, ShouldResemble, map[string]string{
				"DB_HOST_NAME": "h",
				"APP_SUB_KEY":  "5",
				"RATE":         "0.5",
				"NONE":         "",
			})
		})

		Convey("Setenv failures are returned", func() {
			boom := errors.New("boom")
			r.Setenv = func(string, string) error { return boom }

			So(r.Define("X", 1), ShouldEqual, boom)
		})
	})

	Convey("Given the default EnvRegistry", t, func() {
		t.Setenv("DOTINI_TEST_VALUE", "")

		So(EnvRegistry{}.Define("dotini.test.VALUE", true), ShouldBeNil)

		v, ok := os.LookupEnv("DOTINI_TEST_VALUE")
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, "true")
	})
}

func TestRegistryFunc(t *testing.T) {
	Convey("RegistryFunc forwards to the function", t, func() {
		var got string

		r := RegistryFunc(func(name string, _ any) error {
			got = name

			return nil
		})

		So(r.Define("N", 0), ShouldBeNil)
		So(got, ShouldEqual, "N")
	})
}
