package commands_test

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskdash/internal/commands"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/export"
	"taskdash/internal/service"
	"taskdash/internal/testutil"
)

var errBoom = service.NewError(service.CodeBackend, "boom")

// seededService returns a store with an admin (root), two users and four tasks.
// Tokens are "tok-<username>".
func seededService() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddUser("1", "root", service.RoleAdmin, "tok-root")
	svc.AddUser("2", "alice", service.RoleUser, "tok-alice")
	svc.AddUser("3", "bob", service.RoleUser, "tok-bob")
	svc.AddTask(service.Task{ID: "10", Text: "Write report", UserID: "2", Order: testutil.Order(0), CreatedAt: testutil.At(1)})
	svc.AddTask(service.Task{ID: "11", Text: "Review PR", UserID: "3", Order: testutil.Order(1), CreatedAt: testutil.At(2), Status: service.StatusCompleted, Priority: true})
	svc.AddTask(service.Task{ID: "12", Text: "Plan sprint", UserID: "2", Order: testutil.Order(2), CreatedAt: testutil.At(3), Status: service.StatusIncomplete})
	svc.AddTask(service.Task{ID: "13", Text: "Fix login", UserID: "3", Order: testutil.Order(3), CreatedAt: testutil.At(4)})
	return svc
}

// testConfig returns a config in a temp dir with token stored, if non-empty.
func testConfig(t *testing.T, token string) *config.Config {
	t.Helper()
	cfg := &config.Config{Dir: t.TempDir(), Settings: config.DefaultSettings()}
	cfg.Settings.TimeZone = "UTC"
	if token != "" {
		if err := os.WriteFile(cfg.TokenPath(), []byte(token+"\n"), 0600); err != nil {
			t.Fatalf("failed to write token: %v", err)
		}
	}
	return cfg
}

// runCommand parses args with the command's flags and runs it.
func runCommand(t *testing.T, cmd commands.Command, cfg *config.Config, svc service.Service, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	code = cmd.Run(context.Background(), cfg, svc, fs.Args(), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func expectSuccess(t *testing.T, stderr string, code int) {
	t.Helper()
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
}

func expectError(t *testing.T, stderr string, code, wantCode int, wantErr string) {
	t.Helper()
	if code != wantCode {
		t.Errorf("expected exit code %d, got %d", wantCode, code)
	}
	if stderr != wantErr {
		t.Errorf("expected %q, got %q", wantErr, stderr)
	}
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, testConfig(t, ""), nil)

	expectSuccess(t, stderr, code)
	if stdout != "taskdash 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, testConfig(t, ""), nil)

	expectSuccess(t, stderr, code)
	for _, want := range []string{"Usage:", "taskdash move [filter flags] <from> <to>", "(alias: edit)", "Task references:"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Tests for list command
func TestListCommand_Admin(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, testConfig(t, "tok-root"), seededService())

	expectSuccess(t, stderr, code)
	testutil.GoldenString(t, "list_admin", stdout)
}

func TestListCommand_NonAdminSeesOwnTasks(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, testConfig(t, "tok-alice"), seededService())

	expectSuccess(t, stderr, code)
	expected := "   1  [ ]   Write report  #10 @alice\n" +
		"   2  [~]   Plan sprint  #12 @alice\n" +
		"page 1/1 (2 tasks)\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Filters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "status",
			args: []string{"--status", "completed"},
			want: "   1  [x] * Review PR  #11 @bob\npage 1/1 (1 task)\n",
		},
		{
			name: "priority normal",
			args: []string{"--priority", "normal", "--status", "new"},
			want: "   1  [ ]   Write report  #10 @alice\n   2  [ ]   Fix login  #13 @bob\npage 1/1 (2 tasks)\n",
		},
		{
			name: "search",
			args: []string{"--search", "  PLAN "},
			want: "   1  [~]   Plan sprint  #12 @alice\npage 1/1 (1 task)\n",
		},
		{
			name: "user",
			args: []string{"--user", "BO"},
			want: "   1  [x] * Review PR  #11 @bob\n   2  [ ]   Fix login  #13 @bob\npage 1/1 (2 tasks)\n",
		},
		{
			name: "owner",
			args: []string{"--owner", "2"},
			want: "   1  [ ]   Write report  #10 @alice\n   2  [~]   Plan sprint  #12 @alice\npage 1/1 (2 tasks)\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runCommand(t, &commands.ListCmd{}, testConfig(t, "tok-root"), seededService(), tt.args...)

			expectSuccess(t, stderr, code)
			if stdout != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stdout)
			}
		})
	}
}

func TestListCommand_Pagination(t *testing.T) {
	cfg := testConfig(t, "tok-root")
	cfg.Settings.PageSize = 3

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, cfg, seededService(), "--page", "2")

	expectSuccess(t, stderr, code)
	expected := "   4  [ ]   Fix login  #13 @bob\npage 2/2 (4 tasks)\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_PageBeyondLastIsClamped(t *testing.T) {
	cfg := testConfig(t, "tok-root")
	cfg.Settings.PageSize = 3

	stdout, _, code := runCommand(t, &commands.ListCmd{}, cfg, seededService(), "--page", "9")

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.HasSuffix(stdout, "page 2/2 (4 tasks)\n") {
		t.Errorf("expected last page, got %q", stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, testConfig(t, "tok-root"), seededService(), "--search", "zzz")

	expectSuccess(t, stderr, code)
	if stdout != "no tasks found\n" {
		t.Errorf("expected 'no tasks found', got %q", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	cfg := testConfig(t, "tok-root")
	cfg.Quiet = true

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, cfg, seededService(), "--search", "zzz")

	expectSuccess(t, stderr, code)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
}

func TestListCommand_InvalidPage(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, testConfig(t, "tok-root"), seededService(), "--page", "0")

	expectError(t, stderr, code, exitcode.UserError, "error: invalid page number: 0\n")
}

func TestListCommand_InvalidStatusFilter(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, testConfig(t, "tok-root"), seededService(), "--status", "foo")

	expectError(t, stderr, code, exitcode.UserError, "error: invalid status filter: foo\n")
}

func TestListCommand_NotLoggedIn(t *testing.T) {
	svc := seededService()
	_, stderr, code := runCommand(t, &commands.ListCmd{}, testConfig(t, ""), svc)

	expectError(t, stderr, code, exitcode.AuthError, "error: not logged in (run: taskdash login <token>)\n")
	if svc.ListCalls != 0 {
		t.Errorf("expected no request, got %d", svc.ListCalls)
	}
}

func TestListCommand_RejectedTokenIsCleared(t *testing.T) {
	cfg := testConfig(t, "stale")

	_, stderr, code := runCommand(t, &commands.ListCmd{}, cfg, seededService())

	expectError(t, stderr, code, exitcode.AuthError, "error: session expired, token cleared (run: taskdash login <token>)\n")
	if _, err := os.Stat(cfg.TokenPath()); !os.IsNotExist(err) {
		t.Error("token should have been removed")
	}
}

func TestListCommand_BackendError(t *testing.T) {
	svc := seededService()
	svc.ListTasksErr = errBoom

	_, stderr, code := runCommand(t, &commands.ListCmd{}, testConfig(t, "tok-root"), svc)

	expectError(t, stderr, code, exitcode.BackendError, "error: could not load tasks: boom\n")
}

// Tests for stats command
func TestStatsCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.StatsCmd{}, testConfig(t, "tok-root"), seededService())

	expectSuccess(t, stderr, code)
	testutil.GoldenString(t, "stats_admin", stdout)
}

func TestStatsCommand_EmptyFilter(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.StatsCmd{}, testConfig(t, "tok-root"), seededService(), "--search", "zzz")

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stdout, "Completed       0    0%\n") {
		t.Errorf("expected zero percentages, got %q", stdout)
	}
}

// Tests for show command
func TestShowCommand(t *testing.T) {
	for _, ref := range []string{"11", "#2"} {
		stdout, stderr, code := runCommand(t, &commands.ShowCmd{}, testConfig(t, "tok-root"), seededService(), ref)

		expectSuccess(t, stderr, code)
		testutil.GoldenString(t, "show_task", stdout)
	}
}

func TestShowCommand_NotFound(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ShowCmd{}, testConfig(t, "tok-root"), seededService(), "99")

	expectError(t, stderr, code, exitcode.UserError, "error: task not found\n")
}

func TestShowCommand_OtherUsersTaskIsHidden(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ShowCmd{}, testConfig(t, "tok-alice"), seededService(), "11")

	expectError(t, stderr, code, exitcode.UserError, "error: task not found\n")
}

func TestShowCommand_RowOutOfRange(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ShowCmd{}, testConfig(t, "tok-alice"), seededService(), "#3")

	expectError(t, stderr, code, exitcode.UserError, "error: task row out of range: #3\n")
}

// Tests for add command
func TestAddCommand(t *testing.T) {
	svc := seededService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, testConfig(t, "tok-alice"), svc, "Buy", "eggs")

	expectSuccess(t, stderr, code)
	if stdout != "ok #100\n" {
		t.Errorf("expected 'ok #100', got %q", stdout)
	}
	task, ok := svc.Task("100")
	if !ok {
		t.Fatal("task not created")
	}
	if task.Text != "Buy eggs" || task.UserID != "2" || task.Status != service.StatusNew {
		t.Errorf("unexpected task %+v", task)
	}
	if task.Order == nil || *task.Order != -1 {
		t.Errorf("expected order -1, got %v", task.Order)
	}
}

func TestAddCommand_AdminAssignsOwner(t *testing.T) {
	svc := seededService()

	_, stderr, code := runCommand(t, &commands.AddCmd{}, testConfig(t, "tok-root"), svc, "--owner", "3", "Deploy")

	expectSuccess(t, stderr, code)
	if task, _ := svc.Task("100"); task.UserID != "3" {
		t.Errorf("expected owner 3, got %q", task.UserID)
	}
}

func TestAddCommand_OwnerRequiresAdmin(t *testing.T) {
	svc := seededService()

	_, stderr, code := runCommand(t, &commands.AddCmd{}, testConfig(t, "tok-alice"), svc, "--owner", "3", "Deploy")

	expectError(t, stderr, code, exitcode.UserError, "error: --owner requires an admin session\n")
	if svc.CreateCalls != 0 {
		t.Error("expected no request")
	}
}

func TestAddCommand_EmptyText(t *testing.T) {
	svc := seededService()

	_, stderr, code := runCommand(t, &commands.AddCmd{}, testConfig(t, "tok-alice"), svc, "   ")

	expectError(t, stderr, code, exitcode.UserError, "error: task description required\n")
	if svc.ListCalls != 0 || svc.CreateCalls != 0 {
		t.Error("expected no request")
	}
}

func TestAddCommand_BackendError(t *testing.T) {
	svc := seededService()
	svc.CreateTaskErr = errBoom

	_, stderr, code := runCommand(t, &commands.AddCmd{}, testConfig(t, "tok-alice"), svc, "Buy eggs")

	expectError(t, stderr, code, exitcode.BackendError, "error: failed to add task: boom\n")
	if svc.Len() != 4 {
		t.Errorf("expected 4 tasks, got %d", svc.Len())
	}
}

// Tests for done and status commands
func TestDoneCommand(t *testing.T) {
	svc := seededService()

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, testConfig(t, "tok-alice"), svc, "10")

	expectSuccess(t, stderr, code)
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	if task, _ := svc.Task("10"); task.Status != service.StatusCompleted {
		t.Errorf("expected completed, got %v", task.Status)
	}
}

func TestDoneCommand_RowUsesFilters(t *testing.T) {
	svc := seededService()

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, testConfig(t, "tok-root"), svc, "--user", "bob", "#2")

	expectSuccess(t, stderr, code)
	if task, _ := svc.Task("13"); task.Status != service.StatusCompleted {
		t.Errorf("expected task 13 completed, got %v", task.Status)
	}
	if svc.UpdateCalls != 1 {
		t.Errorf("expected 1 update, got %d", svc.UpdateCalls)
	}
}

func TestDoneCommand_NoRef(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.DoneCmd{}, testConfig(t, "tok-alice"), seededService())

	expectError(t, stderr, code, exitcode.UserError, "error: task reference required\n")
}

func TestStatusCommand_Bulk(t *testing.T) {
	svc := seededService()

	stdout, stderr, code := runCommand(t, &commands.StatusCmd{}, testConfig(t, "tok-root"), svc, "completed", "10", "11", "13")

	expectSuccess(t, stderr, code)
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	// 11 is already completed
	if svc.UpdateCalls != 2 {
		t.Errorf("expected 2 updates, got %d", svc.UpdateCalls)
	}
}

func TestStatusCommand_NothingToDo(t *testing.T) {
	svc := seededService()

	stdout, stderr, code := runCommand(t, &commands.StatusCmd{}, testConfig(t, "tok-root"), svc, "new", "10", "13")

	expectSuccess(t, stderr, code)
	if stdout != "nothing to do\n" {
		t.Errorf("expected 'nothing to do', got %q", stdout)
	}
	if svc.UpdateCalls != 0 {
		t.Errorf("expected no update, got %d", svc.UpdateCalls)
	}
}

func TestStatusCommand_InvalidStatus(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.StatusCmd{}, testConfig(t, "tok-root"), seededService(), "bogus", "10")

	expectError(t, stderr, code, exitcode.UserError, "error: invalid status: bogus\n")
}

func TestStatusCommand_BulkFailureReverts(t *testing.T) {
	svc := seededService()
	svc.UpdateTaskErrID["13"] = errBoom

	_, stderr, code := runCommand(t, &commands.StatusCmd{}, testConfig(t, "tok-root"), svc, "incomplete", "10", "13")

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d (%q)", exitcode.BackendError, code, stderr)
	}
}

// Tests for rename and priority commands
func TestRenameCommand(t *testing.T) {
	svc := seededService()

	_, stderr, code := runCommand(t, &commands.RenameCmd{}, testConfig(t, "tok-alice"), svc, "10", "Write", "final", "report")

	expectSuccess(t, stderr, code)
	if task, _ := svc.Task("10"); task.Text != "Write final report" {
		t.Errorf("expected new text, got %q", task.Text)
	}
}

func TestRenameCommand_MissingText(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.RenameCmd{}, testConfig(t, "tok-alice"), seededService(), "10")

	expectError(t, stderr, code, exitcode.UserError, "error: task reference and description required\n")
}

func TestPriorityCommand(t *testing.T) {
	svc := seededService()
	cfg := testConfig(t, "tok-root")

	stdout, stderr, code := runCommand(t, &commands.PriorityCmd{}, cfg, svc, "11")
	expectSuccess(t, stderr, code)
	if stdout != "ok normal\n" {
		t.Errorf("expected 'ok normal', got %q", stdout)
	}

	stdout, _, _ = runCommand(t, &commands.PriorityCmd{}, cfg, svc, "11")
	if stdout != "ok priority\n" {
		t.Errorf("expected 'ok priority', got %q", stdout)
	}
}

// Tests for rm command
func TestRmCommand(t *testing.T) {
	svc := seededService()

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, testConfig(t, "tok-alice"), svc, "10")

	expectSuccess(t, stderr, code)
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	if _, ok := svc.Task("10"); ok {
		t.Error("task 10 should be deleted")
	}
}

func TestRmCommand_BulkSkipsOtherUsersTasks(t *testing.T) {
	svc := seededService()

	_, stderr, code := runCommand(t, &commands.RmCmd{}, testConfig(t, "tok-alice"), svc, "10", "11", "12")

	expectSuccess(t, stderr, code)
	if svc.DeleteCalls != 2 {
		t.Errorf("expected 2 deletes, got %d", svc.DeleteCalls)
	}
	if _, ok := svc.Task("11"); !ok {
		t.Error("bob's task must survive")
	}
}

func TestRmCommand_BackendError(t *testing.T) {
	svc := seededService()
	svc.DeleteTaskErr = errBoom

	_, stderr, code := runCommand(t, &commands.RmCmd{}, testConfig(t, "tok-alice"), svc, "10")

	expectError(t, stderr, code, exitcode.BackendError, "error: delete failed: boom\n")
}

// Tests for move command
func TestMoveCommand(t *testing.T) {
	svc := seededService()

	stdout, stderr, code := runCommand(t, &commands.MoveCmd{}, testConfig(t, "tok-root"), svc, "1", "3")

	expectSuccess(t, stderr, code)
	if stdout != "ok (3 reordered)\n" {
		t.Errorf("expected 'ok (3 reordered)', got %q", stdout)
	}
	want := map[service.ID]int{"11": 0, "12": 1, "10": 2, "13": 3}
	for id, order := range want {
		task, _ := svc.Task(id)
		if task.Order == nil || *task.Order != order {
			t.Errorf("task %s: expected order %d, got %v", id, order, task.Order)
		}
	}
}

func TestMoveCommand_SamePosition(t *testing.T) {
	svc := seededService()

	stdout, stderr, code := runCommand(t, &commands.MoveCmd{}, testConfig(t, "tok-root"), svc, "2", "2")

	expectSuccess(t, stderr, code)
	if stdout != "nothing to do\n" {
		t.Errorf("expected 'nothing to do', got %q", stdout)
	}
	if svc.UpdateCalls != 0 {
		t.Errorf("expected no update, got %d", svc.UpdateCalls)
	}
}

func TestMoveCommand_OutOfRange(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.MoveCmd{}, testConfig(t, "tok-root"), seededService(), "1", "9")

	expectError(t, stderr, code, exitcode.UserError, "error: position out of range (1-4)\n")
}

func TestMoveCommand_InvalidPosition(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.MoveCmd{}, testConfig(t, "tok-root"), seededService(), "0", "2")

	expectError(t, stderr, code, exitcode.UserError, "error: invalid position: 0\n")
}

// Tests for export and import commands
func TestExportCommand(t *testing.T) {
	cfg := testConfig(t, "tok-root")
	path := filepath.Join(t.TempDir(), "tasks.csv")

	stdout, stderr, code := runCommand(t, &commands.ExportCmd{}, cfg, seededService(), "--output", path)

	expectSuccess(t, stderr, code)
	if stdout != "ok "+path+" (4 tasks)\n" {
		t.Errorf("unexpected output %q", stdout)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := export.ParseCSV(f)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[1].ID != "11" || rows[1].Username != "bob" || rows[1].Status != "Completed" {
		t.Errorf("unexpected row %+v", rows[1])
	}
}

func TestExportCommand_Stdout(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ExportCmd{}, testConfig(t, "tok-root"), seededService(),
		"--status", "completed", "-o", "-")

	expectSuccess(t, stderr, code)
	if !strings.HasPrefix(stdout, "\ufeffid,todo,username,completed,priority,order,createdAt,updatedAt\r\n") {
		t.Errorf("expected BOM and header, got %q", stdout)
	}
	if strings.Count(stdout, "\r\n") != 1 {
		t.Errorf("expected one data row, got %q", stdout)
	}
}

func TestExportCommand_Nothing(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ExportCmd{}, testConfig(t, "tok-root"), seededService(),
		"--search", "zzz", "-o", "-")

	expectError(t, stderr, code, exitcode.UserError, "error: no tasks to export\n")
}

func TestExportCommand_UnknownFormat(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ExportCmd{}, testConfig(t, "tok-root"), seededService(), "--format", "xls")

	expectError(t, stderr, code, exitcode.UserError, "error: unknown export format \"xls\"\n")
}

func TestImportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")
	_, stderr, code := runCommand(t, &commands.ExportCmd{}, testConfig(t, "tok-root"), seededService(), "-o", path)
	expectSuccess(t, stderr, code)

	stdout, stderr, code := runCommand(t, &commands.ImportCmd{}, testConfig(t, ""), nil, path)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (%q)", code, stderr)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "import is not supported yet; 4 rows read, nothing changed\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestImportCommand_RejectsForeignCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, _, code := runCommand(t, &commands.ImportCmd{}, testConfig(t, ""), nil, path)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
}

// Tests for users and whoami commands
func TestUsersCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.UsersCmd{}, testConfig(t, "tok-root"), seededService())

	expectSuccess(t, stderr, code)
	expected := "     1  admin  root\n     2  user   alice\n     3  user   bob\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestWhoamiCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.WhoamiCmd{}, testConfig(t, "tok-alice"), seededService())

	expectSuccess(t, stderr, code)
	if stdout != "     2  user   alice\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}
