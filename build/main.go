package main

import (
	"os"
	"os/exec"

	"github.com/goyek/goyek/v2"
)

func goCmd(a *goyek.A, args ...string) {
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		a.Error(err)
	}
}

var vet = goyek.Define(goyek.Task{
	Name:  "vet",
	Usage: "Run go vet on all packages",
	Action: func(a *goyek.A) {
		goCmd(a, "vet", "./...")
	},
})

var test = goyek.Define(goyek.Task{
	Name:  "test",
	Usage: "Run all tests",
	Action: func(a *goyek.A) {
		goCmd(a, "test", "./...")
	},
})

var testShort = goyek.Define(goyek.Task{
	Name:  "test-short",
	Usage: "Run tests that do not need external tools",
	Action: func(a *goyek.A) {
		goCmd(a, "test", "-short", "./...")
	},
})

var _ = goyek.Define(goyek.Task{
	Name:  "all",
	Usage: "Vet and test",
	Deps:  goyek.Deps{vet, test},
})

func main() {
	goyek.SetDefault(testShort)
	goyek.Main(os.Args[1:])
}
