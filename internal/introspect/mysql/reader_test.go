package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripLeadingStatementsRemovesUse(t *testing.T) {
	in := "USE `mydb`;\nCREATE TABLE `t` (`id` int)"
	got := stripLeadingStatements(in)
	assert.Equal(t, "CREATE TABLE `t` (`id` int)", got)
}

func TestStripLeadingStatementsRemovesCreateDatabase(t *testing.T) {
	in := "CREATE DATABASE `mydb`;\nUSE `mydb`;\nCREATE VIEW `v` AS SELECT 1"
	got := stripLeadingStatements(in)
	assert.Equal(t, "CREATE VIEW `v` AS SELECT 1", got)
}

func TestStripLeadingStatementsNoOpWhenNothingToStrip(t *testing.T) {
	in := "CREATE TABLE `t` (`id` int)"
	assert.Equal(t, in, stripLeadingStatements(in))
}
