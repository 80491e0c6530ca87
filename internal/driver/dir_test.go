package driver

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.scad", "cube(1);\n")
	writeFile(t, dir, "a.scad", "cube(1);\n")
	writeFile(t, dir, "README.md", "docs\n")

	files, err := ListFiles(dir, nil)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{filepath.Join(dir, "a.scad"), filepath.Join(dir, "b.scad")}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestCheckDirDeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.scad", "cube(10);\n")
	writeFile(t, dir, "a.scad", "sphere(5);\n")
	writeFile(t, dir, filepath.Join("sub", "c.scad"), "cylinder(2);\n")
	writeFile(t, dir, "notes.txt", "not a model\n")

	res, err := CheckDir(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.scad"),
		filepath.Join(dir, "b.scad"),
		filepath.Join(dir, "sub", "c.scad"),
	}
	if len(res.Files) != len(want) {
		t.Fatalf("files = %d, want %d", len(res.Files), len(want))
	}
	for i, fr := range res.Files {
		if fr.Path != want[i] {
			t.Errorf("Files[%d].Path = %q, want %q", i, fr.Path, want[i])
		}
		if !fr.Clean() {
			t.Errorf("Files[%d] unexpectedly dirty: %v", i, fr.Errors)
		}
	}
}

func TestCheckDirSharedFileSet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.scad", "cube(10);\n")
	writeFile(t, dir, "b.scad", "sphere(5)\n")

	res, err := CheckDir(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if res.FileSet == nil || res.FileSet.Len() != 2 {
		t.Fatalf("FileSet missing or short: %+v", res.FileSet)
	}
	for i, fr := range res.Files {
		if fr.FileSet != res.FileSet {
			t.Errorf("Files[%d] does not share the directory FileSet", i)
		}
	}
	if res.ErrorCount() != 1 {
		t.Errorf("ErrorCount() = %d, want 1", res.ErrorCount())
	}
}

func TestCheckDirInclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "box.scad", "cube(10);\n")
	writeFile(t, dir, "gear.scad", "sphere(5);\n")
	writeFile(t, dir, filepath.Join("parts", "lid.scad"), "cylinder(2);\n")

	tests := []struct {
		name    string
		include []string
		want    []string
	}{
		{
			name: "empty admits everything",
			want: []string{"box.scad", "gear.scad", filepath.Join("parts", "lid.scad")},
		},
		{
			name:    "basename pattern",
			include: []string{"g*.scad"},
			want:    []string{"gear.scad"},
		},
		{
			name:    "path pattern",
			include: []string{"parts/*.scad"},
			want:    []string{filepath.Join("parts", "lid.scad")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CheckDir(context.Background(), dir, Options{Include: tt.include})
			if err != nil {
				t.Fatalf("CheckDir: %v", err)
			}
			if len(res.Files) != len(tt.want) {
				t.Fatalf("files = %d, want %d", len(res.Files), len(tt.want))
			}
			for i, rel := range tt.want {
				if want := filepath.Join(dir, rel); res.Files[i].Path != want {
					t.Errorf("Files[%d].Path = %q, want %q", i, res.Files[i].Path, want)
				}
			}
		})
	}
}

func TestCheckDirEmpty(t *testing.T) {
	res, err := CheckDir(context.Background(), t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if len(res.Files) != 0 {
		t.Errorf("files = %d, want 0", len(res.Files))
	}
}

func TestCheckDirProgressSerial(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.scad", "cube(10);\n")
	writeFile(t, dir, "b.scad", "sphere(5)\n")

	var mu sync.Mutex
	var events []ProgressEvent
	opts := Options{
		Jobs: 1,
		Progress: func(ev ProgressEvent) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		},
	}

	if _, err := CheckDir(context.Background(), dir, opts); err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("events = %d, want 4", len(events))
	}
	// Jobs=1 serializes the workers, so events arrive in file order.
	wantPaths := []string{
		filepath.Join(dir, "a.scad"), filepath.Join(dir, "a.scad"),
		filepath.Join(dir, "b.scad"), filepath.Join(dir, "b.scad"),
	}
	wantStatus := []ProgressStatus{ProgressStart, ProgressDone, ProgressStart, ProgressDone}
	for i, ev := range events {
		if ev.Path != wantPaths[i] || ev.Status != wantStatus[i] {
			t.Errorf("events[%d] = %+v, want path %q status %v", i, ev, wantPaths[i], wantStatus[i])
		}
		if ev.Total != 2 {
			t.Errorf("events[%d].Total = %d, want 2", i, ev.Total)
		}
	}
	if events[1].Errors != 0 {
		t.Errorf("clean file reported %d errors", events[1].Errors)
	}
	if events[3].Errors != 1 {
		t.Errorf("dirty file reported %d errors, want 1", events[3].Errors)
	}
}

func TestCheckDirProgressParallel(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.scad", "b.scad", "c.scad", "d.scad"} {
		writeFile(t, dir, name, "cube(10);\n")
	}

	var mu sync.Mutex
	starts, dones := 0, 0
	opts := Options{
		Jobs: 4,
		Progress: func(ev ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			switch ev.Status {
			case ProgressStart:
				starts++
			case ProgressDone:
				dones++
			}
		},
	}

	if _, err := CheckDir(context.Background(), dir, opts); err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if starts != 4 || dones != 4 {
		t.Errorf("starts = %d, dones = %d, want 4 each", starts, dones)
	}
}

func TestCheckDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.scad", "cube(10);\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CheckDir(ctx, dir, Options{})
	if err == nil {
		t.Fatal("CheckDir ignored a cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
