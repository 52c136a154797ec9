package windows

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWmctrl(t *testing.T) {
	out := `0x01800003 -1 1650   host Top Panel
0x03a00003  0 2231   host Mozilla Firefox
0x03a0000f  0 2231   host Downloads
0x04200004  1 0      host unknown owner

`
	pids, err := ParseWmctrl(out)
	require.NoError(t, err)
	assert.Equal(t, []int32{1650, 2231, 2231}, pids)
}

func TestParseWmctrlBadPID(t *testing.T) {
	_, err := ParseWmctrl("0x01 0 abc host title\n")
	assert.Error(t, err)
}

func TestParseAppleScriptList(t *testing.T) {
	pids, err := ParseAppleScriptList("512, 733, 1024\n")
	require.NoError(t, err)
	assert.Equal(t, []int32{512, 733, 1024}, pids)

	pids, err = ParseAppleScriptList("\n")
	require.NoError(t, err)
	assert.Empty(t, pids)
}

func TestParseTasklistCSV(t *testing.T) {
	out := `"svchost.exe","900","Services","0","12,000 K","Unknown","N/A","0:00:01","N/A"
"notepad.exe","4242","Console","1","9,876 K","Running","PC\me","0:00:00","Untitled - Notepad"
`
	pids, err := ParseTasklistCSV(out)
	require.NoError(t, err)
	assert.Equal(t, []int32{4242}, pids)
}

func TestListerFunc(t *testing.T) {
	l := ListerFunc(func(context.Context) ([]int32, error) { return []int32{7}, nil })
	pids, err := l.OwnerPIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int32{7}, pids)
}
