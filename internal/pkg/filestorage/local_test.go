package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) *LocalStorage {
	t.Helper()
	ls, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/")
	require.NoError(t, err)
	return ls
}

func uploadHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

func TestSaveBytesDeterministicName(t *testing.T) {
	ls := newStorage(t)

	ref, err := ls.SaveBytes("certificates", "certificate_7_1.pdf", []byte("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, "certificates/certificate_7_1.pdf", ref)

	data, err := os.ReadFile(filepath.Join(ls.BasePath(), "certificates", "certificate_7_1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))
	assert.Equal(t, "http://localhost:8080/uploads/certificates/certificate_7_1.pdf", ls.URL(ref))
}

func TestSaveBytesRejectsEscapingNames(t *testing.T) {
	ls := newStorage(t)

	for _, name := range []string{"", "..", "../x.pdf", "a/b.pdf"} {
		_, err := ls.SaveBytes("certificates", name, []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidPath, name)
	}
	_, err := ls.SaveBytes("../outside", "x.pdf", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestSaveFileWithPathUsesUniqueNames(t *testing.T) {
	ls := newStorage(t)
	header := uploadHeader(t, "file", "Homework.PDF", []byte("answers"))

	first, err := ls.SaveFileWithPath(header, "homework")
	require.NoError(t, err)
	second, err := ls.SaveFileWithPath(header, "homework")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "homework/"))
	assert.True(t, strings.HasSuffix(first, ".pdf"))

	full, err := ls.GetFullPath(first)
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "answers", string(data))
}

func TestSaveFileWithPathNilHeader(t *testing.T) {
	ref, err := newStorage(t).SaveFileWithPath(nil, "materials")
	require.NoError(t, err)
	assert.Empty(t, ref)
}

func TestDeleteFileInSubdirectory(t *testing.T) {
	ls := newStorage(t)
	ref, err := ls.SaveBytes("certificates", "certificate_1_1.pdf", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, ls.DeleteFile(ref))
	full, _ := ls.GetFullPath(ref)
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is a no-op.
	assert.NoError(t, ls.DeleteFile(ref))
	assert.NoError(t, ls.DeleteFile(""))
	assert.ErrorIs(t, ls.DeleteFile("../../etc/passwd"), ErrInvalidPath)
}

func TestURLWithoutBaseURL(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/materials/a.pdf", ls.URL("materials/a.pdf"))
	assert.Empty(t, ls.URL(""))
}
