package main

import "github.com/repsboard/payroll-backend/internal/cli"

var version = "dev"

func main() {
	cli.Execute(version)
}
