/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/webdevzw/reviews-apiserver/cmd"

func main() {
	cmd.Execute()
}
