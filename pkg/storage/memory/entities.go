package memory

import (
	"context"

	"moderation/pkg/domain"
	"moderation/pkg/storage"
)

// --- websites ---

func (m *Memory) WebsiteByID(_ context.Context, id int64) (*domain.Website, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.websites[id]
	if !ok {
		return nil, nil
	}

	return &w, nil
}

func (m *Memory) WebsiteByDomain(_ context.Context, dom string) (*domain.Website, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.websites {
		if w.Domain == dom {
			return &w, nil
		}
	}

	return nil, nil
}

func (m *Memory) StoreWebsite(_ context.Context, w domain.Website) (*domain.Website, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(&w.Meta)
	m.websites[w.ID] = w

	return &w, nil
}

func (m *Memory) UpdateWebsite(_ context.Context, w domain.Website, expectedModified int64) (*domain.Website, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.websites[w.ID]
	if !ok {
		return nil, nil
	}
	if cur.Modified != expectedModified {
		return nil, storage.ErrStaleEntity
	}
	w.Created = cur.Created
	m.bump(&w.Meta, cur.Modified)
	m.websites[w.ID] = w

	return &w, nil
}

func (m *Memory) UpdateWebsiteStatus(_ context.Context, id int64, status domain.Status) (*domain.Website, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.websites[id]
	if !ok || !cur.Status.Pending() {
		return nil, nil
	}
	cur.Status = status
	m.bump(&cur.Meta, cur.Modified)
	m.websites[id] = cur

	return &cur, nil
}

// DeleteWebsite removes the website together with its tag attachments.
func (m *Memory) DeleteWebsite(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.websites[id]; !ok {
		return false, nil
	}
	delete(m.websites, id)
	for wtID, wt := range m.websiteTags {
		if wt.WebsiteID == id {
			delete(m.websiteTags, wtID)
		}
	}

	return true, nil
}

func (m *Memory) WebsitesModifiedAfter(_ context.Context, cutoff int64) ([]domain.Website, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Website
	for _, w := range m.websites {
		if w.Modified > cutoff {
			out = append(out, w)
		}
	}

	return out, nil
}

// --- webpages ---

func (m *Memory) WebpageByID(_ context.Context, id int64) (*domain.Webpage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.webpages[id]
	if !ok {
		return nil, nil
	}

	return &w, nil
}

func (m *Memory) WebpageByPath(_ context.Context, websiteID int64, path string) (*domain.Webpage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.webpages {
		if w.WebsiteID == websiteID && w.Path == path {
			return &w, nil
		}
	}

	return nil, nil
}

func (m *Memory) StoreWebpage(_ context.Context, w domain.Webpage) (*domain.Webpage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(&w.Meta)
	m.webpages[w.ID] = w

	return &w, nil
}

func (m *Memory) UpdateWebpage(_ context.Context, w domain.Webpage, expectedModified int64) (*domain.Webpage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.webpages[w.ID]
	if !ok {
		return nil, nil
	}
	if cur.Modified != expectedModified {
		return nil, storage.ErrStaleEntity
	}
	w.Created = cur.Created
	m.bump(&w.Meta, cur.Modified)
	m.webpages[w.ID] = w

	return &w, nil
}

func (m *Memory) UpdateWebpageStatus(_ context.Context, id int64, status domain.Status) (*domain.Webpage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.webpages[id]
	if !ok || !cur.Status.Pending() {
		return nil, nil
	}
	cur.Status = status
	m.bump(&cur.Meta, cur.Modified)
	m.webpages[id] = cur

	return &cur, nil
}

func (m *Memory) DeleteWebpage(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.webpages[id]; !ok {
		return false, nil
	}
	delete(m.webpages, id)

	return true, nil
}

func (m *Memory) WebpagesModifiedAfter(_ context.Context, cutoff int64) ([]domain.Webpage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Webpage
	for _, w := range m.webpages {
		if w.Modified > cutoff {
			out = append(out, w)
		}
	}

	return out, nil
}

// --- tags ---

func (m *Memory) TagByID(_ context.Context, id int64) (*domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tags[id]
	if !ok {
		return nil, nil
	}

	return &t, nil
}

func (m *Memory) TagByName(_ context.Context, name string) (*domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tags {
		if t.Name == name {
			return &t, nil
		}
	}

	return nil, nil
}

func (m *Memory) StoreTag(_ context.Context, t domain.Tag) (*domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(&t.Meta)
	m.tags[t.ID] = t

	return &t, nil
}

func (m *Memory) UpdateTag(_ context.Context, t domain.Tag, expectedModified int64) (*domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.tags[t.ID]
	if !ok {
		return nil, nil
	}
	if cur.Modified != expectedModified {
		return nil, storage.ErrStaleEntity
	}
	t.Created = cur.Created
	m.bump(&t.Meta, cur.Modified)
	m.tags[t.ID] = t

	return &t, nil
}

func (m *Memory) DeleteTag(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tags[id]; !ok {
		return false, nil
	}
	delete(m.tags, id)

	return true, nil
}

func (m *Memory) TagsModifiedAfter(_ context.Context, cutoff int64) ([]domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Tag
	for _, t := range m.tags {
		if t.Modified > cutoff {
			out = append(out, t)
		}
	}

	return out, nil
}

// --- website tags ---

func (m *Memory) WebsiteTagByID(_ context.Context, id int64) (*domain.WebsiteTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wt, ok := m.websiteTags[id]
	if !ok {
		return nil, nil
	}

	return &wt, nil
}

func (m *Memory) WebsiteTagsByWebsite(_ context.Context, websiteID int64) ([]domain.WebsiteTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.WebsiteTag
	for _, wt := range m.websiteTags {
		if wt.WebsiteID == websiteID {
			out = append(out, wt)
		}
	}

	return out, nil
}

func (m *Memory) StoreWebsiteTag(_ context.Context, wt domain.WebsiteTag) (*domain.WebsiteTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(&wt.Meta)
	m.websiteTags[wt.ID] = wt

	return &wt, nil
}

func (m *Memory) UpdateWebsiteTag(_ context.Context, wt domain.WebsiteTag, expectedModified int64) (*domain.WebsiteTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.websiteTags[wt.ID]
	if !ok {
		return nil, nil
	}
	if cur.Modified != expectedModified {
		return nil, storage.ErrStaleEntity
	}
	wt.Created = cur.Created
	m.bump(&wt.Meta, cur.Modified)
	m.websiteTags[wt.ID] = wt

	return &wt, nil
}

func (m *Memory) DeleteWebsiteTag(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.websiteTags[id]; !ok {
		return false, nil
	}
	delete(m.websiteTags, id)

	return true, nil
}

func (m *Memory) WebsiteTagsModifiedAfter(_ context.Context, cutoff int64) ([]domain.WebsiteTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.WebsiteTag
	for _, wt := range m.websiteTags {
		if wt.Modified > cutoff {
			out = append(out, wt)
		}
	}

	return out, nil
}

// --- reports ---

func (m *Memory) WebsiteReportByID(_ context.Context, id int64) (*domain.WebsiteReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.websiteReports[id]
	if !ok {
		return nil, nil
	}

	return &r, nil
}

func (m *Memory) StoreWebsiteReport(_ context.Context, r domain.WebsiteReport) (*domain.WebsiteReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(&r.Meta)
	m.websiteReports[r.ID] = r

	return &r, nil
}

func (m *Memory) UpdateWebsiteReport(
	_ context.Context,
	r domain.WebsiteReport,
	expectedModified int64) (*domain.WebsiteReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.websiteReports[r.ID]
	if !ok {
		return nil, nil
	}
	if cur.Modified != expectedModified {
		return nil, storage.ErrStaleEntity
	}
	r.Created = cur.Created
	m.bump(&r.Meta, cur.Modified)
	m.websiteReports[r.ID] = r

	return &r, nil
}

// DeleteWebsiteReport removes the report together with its conversation.
func (m *Memory) DeleteWebsiteReport(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.websiteReports[id]; !ok {
		return false, nil
	}
	delete(m.websiteReports, id)
	m.dropMessages(domain.ReportKindWebsite, id)

	return true, nil
}

func (m *Memory) WebsiteReportsModifiedAfter(_ context.Context, cutoff int64) ([]domain.WebsiteReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.WebsiteReport
	for _, r := range m.websiteReports {
		if r.Modified > cutoff {
			out = append(out, r)
		}
	}

	return out, nil
}

func (m *Memory) WebpageReportByID(_ context.Context, id int64) (*domain.WebpageReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.webpageReports[id]
	if !ok {
		return nil, nil
	}

	return &r, nil
}

func (m *Memory) StoreWebpageReport(_ context.Context, r domain.WebpageReport) (*domain.WebpageReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(&r.Meta)
	m.webpageReports[r.ID] = r

	return &r, nil
}

func (m *Memory) UpdateWebpageReport(
	_ context.Context,
	r domain.WebpageReport,
	expectedModified int64) (*domain.WebpageReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.webpageReports[r.ID]
	if !ok {
		return nil, nil
	}
	if cur.Modified != expectedModified {
		return nil, storage.ErrStaleEntity
	}
	r.Created = cur.Created
	m.bump(&r.Meta, cur.Modified)
	m.webpageReports[r.ID] = r

	return &r, nil
}

func (m *Memory) DeleteWebpageReport(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.webpageReports[id]; !ok {
		return false, nil
	}
	delete(m.webpageReports, id)
	m.dropMessages(domain.ReportKindWebpage, id)

	return true, nil
}

func (m *Memory) WebpageReportsModifiedAfter(_ context.Context, cutoff int64) ([]domain.WebpageReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.WebpageReport
	for _, r := range m.webpageReports {
		if r.Modified > cutoff {
			out = append(out, r)
		}
	}

	return out, nil
}

func (m *Memory) UserReportByID(_ context.Context, id int64) (*domain.UserReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.userReports[id]
	if !ok {
		return nil, nil
	}

	return &r, nil
}

func (m *Memory) StoreUserReport(_ context.Context, r domain.UserReport) (*domain.UserReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(&r.Meta)
	m.userReports[r.ID] = r

	return &r, nil
}

func (m *Memory) UpdateUserReport(
	_ context.Context,
	r domain.UserReport,
	expectedModified int64) (*domain.UserReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.userReports[r.ID]
	if !ok {
		return nil, nil
	}
	if cur.Modified != expectedModified {
		return nil, storage.ErrStaleEntity
	}
	r.Created = cur.Created
	m.bump(&r.Meta, cur.Modified)
	m.userReports[r.ID] = r

	return &r, nil
}

func (m *Memory) DeleteUserReport(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.userReports[id]; !ok {
		return false, nil
	}
	delete(m.userReports, id)
	m.dropMessages(domain.ReportKindUser, id)

	return true, nil
}

func (m *Memory) UserReportsModifiedAfter(_ context.Context, cutoff int64) ([]domain.UserReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.UserReport
	for _, r := range m.userReports {
		if r.Modified > cutoff {
			out = append(out, r)
		}
	}

	return out, nil
}

// dropMessages removes the conversation of one report. Caller holds the lock.
func (m *Memory) dropMessages(kind domain.ReportKind, reportID int64) {
	for id, msg := range m.reportMessages {
		if msg.ReportKind == kind && msg.ReportID == reportID {
			delete(m.reportMessages, id)
		}
	}
}

// --- report messages ---

func (m *Memory) ReportMessageByID(_ context.Context, id int64) (*domain.ReportMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.reportMessages[id]
	if !ok {
		return nil, nil
	}

	return &msg, nil
}

func (m *Memory) ReportMessagesByReport(
	_ context.Context,
	kind domain.ReportKind,
	reportID int64) ([]domain.ReportMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ReportMessage
	for _, msg := range m.reportMessages {
		if msg.ReportKind == kind && msg.ReportID == reportID {
			out = append(out, msg)
		}
	}

	return out, nil
}

func (m *Memory) StoreReportMessage(_ context.Context, msg domain.ReportMessage) (*domain.ReportMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(&msg.Meta)
	m.reportMessages[msg.ID] = msg

	return &msg, nil
}

func (m *Memory) UpdateReportMessage(
	_ context.Context,
	msg domain.ReportMessage,
	expectedModified int64) (*domain.ReportMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.reportMessages[msg.ID]
	if !ok {
		return nil, nil
	}
	if cur.Modified != expectedModified {
		return nil, storage.ErrStaleEntity
	}
	msg.Created = cur.Created
	m.bump(&msg.Meta, cur.Modified)
	m.reportMessages[msg.ID] = msg

	return &msg, nil
}

func (m *Memory) DeleteReportMessage(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reportMessages[id]; !ok {
		return false, nil
	}
	delete(m.reportMessages, id)

	return true, nil
}

func (m *Memory) ReportMessagesModifiedAfter(_ context.Context, cutoff int64) ([]domain.ReportMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ReportMessage
	for _, msg := range m.reportMessages {
		if msg.Modified > cutoff {
			out = append(out, msg)
		}
	}

	return out, nil
}

// --- users ---

func (m *Memory) UserByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}

	return &u, nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}

	return nil, nil
}

func (m *Memory) StoreUser(_ context.Context, u domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(&u.Meta)
	m.users[u.ID] = u

	return &u, nil
}

func (m *Memory) UpdateUser(_ context.Context, u domain.User, expectedModified int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.users[u.ID]
	if !ok {
		return nil, nil
	}
	if cur.Modified != expectedModified {
		return nil, storage.ErrStaleEntity
	}
	u.Created = cur.Created
	m.bump(&u.Meta, cur.Modified)
	m.users[u.ID] = u

	return &u, nil
}

func (m *Memory) DeleteUser(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	delete(m.users, id)
	delete(m.secrets, id)

	return true, nil
}

func (m *Memory) UsersModifiedAfter(_ context.Context, cutoff int64) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.users {
		if u.Modified > cutoff {
			out = append(out, u)
		}
	}

	return out, nil
}
